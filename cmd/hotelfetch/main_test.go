package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type provider struct {
	srv *httptest.Server

	mu     sync.Mutex
	status int
	body   string
	calls  int
}

func newProvider(t *testing.T, body string) *provider {
	t.Helper()
	p := &provider{status: http.StatusOK, body: body}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		p.mu.Lock()
		p.calls++
		status, body := p.status, p.body
		p.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *provider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *provider) fail() {
	p.mu.Lock()
	p.status = http.StatusBadGateway
	p.mu.Unlock()
}

// writeConfig writes a config with both proxies disabled and a file cache
// rooted in the test directory.
func writeConfig(t *testing.T, baseURL, store string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`provider:
  base_url: %q
  api_key: "test-key"
cache:
  store: %s
  dir: %q
transport:
  attempt_timeout: 2s
  prefix_proxy: ""
  query_proxy: ""
log:
  level: error
`, baseURL, store, filepath.Join(dir, "cache"))
	path := filepath.Join(dir, "hotelfetch.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeView(t *testing.T, out string) resultView {
	t.Helper()
	var v resultView
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	return v
}

const liveListings = `{"status":true,"data":{"hotels":[{"hotel_id":7,"property":{"id":7,"name":"Live Hotel"}}]}}`

func TestListings_CachedWithinWindow(t *testing.T) {
	p := newProvider(t, liveListings)
	cfg := writeConfig(t, p.srv.URL, "file")

	out, err := execute(t, "--config", cfg, "listings", "unique")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := decodeView(t, out)
	if first.Provenance != "fresh" {
		t.Fatalf("first provenance = %q, want fresh", first.Provenance)
	}
	if !strings.HasPrefix(first.Key, "booking_api_searchHotels_") {
		t.Errorf("key = %q, want booking_api_searchHotels_ prefix", first.Key)
	}

	// Fresh hits never reach the provider.
	p.fail()
	out, err = execute(t, "--config", cfg, "listings", "unique")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := decodeView(t, out); got.Provenance != "fresh" || p.callCount() != 1 {
		t.Fatalf("second run provenance = %q calls = %d, want cached fresh with 1 call", got.Provenance, p.callCount())
	}
}

func TestListings_StaleAfterExpiry(t *testing.T) {
	p := newProvider(t, liveListings)
	cfg := writeConfig(t, p.srv.URL, "file")
	t.Setenv("HOTELFETCH_CACHE_EXPIRY", "1ns")

	if _, err := execute(t, "--config", cfg, "listings", "weekend"); err != nil {
		t.Fatalf("first run: %v", err)
	}

	p.fail()
	out, err := execute(t, "--config", cfg, "listings", "weekend")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	got := decodeView(t, out)
	if got.Provenance != "stale" {
		t.Fatalf("provenance = %q, want stale", got.Provenance)
	}
	if got.Cause == "" {
		t.Error("stale result should carry the transport cause")
	}
	if !strings.Contains(string(got.Payload), "Live Hotel") {
		t.Errorf("payload = %s, want cached listing", got.Payload)
	}
}

func TestListings_SyntheticSummary(t *testing.T) {
	p := newProvider(t, "")
	p.srv.Close()
	cfg := writeConfig(t, p.srv.URL, "memory")

	out, err := execute(t, "--config", cfg, "listings", "unique", "--summary")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out, "2 hotels (synthetic)\n") {
		t.Fatalf("output = %q, want synthetic summary of 2 hotels", out)
	}
}

func TestSearchDestination_StatusFalseFails(t *testing.T) {
	p := newProvider(t, `{"status":false,"message":"Invalid query"}`)
	cfg := writeConfig(t, p.srv.URL, "memory")

	_, err := execute(t, "--config", cfg, "search", "destination", "new", "york")
	if err == nil || !strings.Contains(err.Error(), "Invalid query") {
		t.Fatalf("err = %v, want provider message", err)
	}
}

func TestDetails_UnknownKind(t *testing.T) {
	p := newProvider(t, `{"status":true,"data":{}}`)
	cfg := writeConfig(t, p.srv.URL, "memory")

	_, err := execute(t, "--config", cfg, "details", "42", "--kind", "menu")
	if err == nil || !strings.Contains(err.Error(), `unknown kind "menu"`) {
		t.Fatalf("err = %v, want unknown kind", err)
	}
	if n := p.callCount(); n != 0 {
		t.Errorf("calls = %d, want 0", n)
	}
}

func TestDetails_Photos(t *testing.T) {
	p := newProvider(t, `{"status":true,"data":[{"id":1,"url":"https://img"}]}`)
	cfg := writeConfig(t, p.srv.URL, "memory")

	out, err := execute(t, "--config", cfg, "details", "42", "-k", "photos")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := decodeView(t, out)
	if got.Provenance != "fresh" || !strings.HasPrefix(got.Key, "booking_details_getHotelPhotos_") {
		t.Fatalf("result = %+v", got)
	}
}

func TestHealth(t *testing.T) {
	cfg := writeConfig(t, "https://example.invalid", "memory")

	out, err := execute(t, "--config", cfg, "health")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var v healthView
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Status != "healthy" {
		t.Fatalf("status = %q, want healthy", v.Status)
	}
	if _, ok := v.Checks["cache:memory"]; !ok {
		t.Errorf("checks = %v, want cache:memory", v.Checks)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "https://example.invalid", "floppy")

	_, err := execute(t, "--config", cfg, "health")
	if err == nil || !strings.Contains(err.Error(), "cache.store") {
		t.Fatalf("err = %v, want store validation error", err)
	}
	if errors.Is(err, errUnhealthy) {
		t.Fatal("validation error should not be reported as unhealthy")
	}
}
