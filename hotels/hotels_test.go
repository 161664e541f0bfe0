package hotels

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/hotelfetch/cache"
	"github.com/jonwraymond/hotelfetch/fetch"
	"github.com/jonwraymond/hotelfetch/transport"
)

type request struct {
	via     string
	path    string
	query   url.Values
	headers http.Header
}

// fakeProvider serves as origin and both proxy styles.
type fakeProvider struct {
	origin, prefix, query *httptest.Server

	mu       sync.Mutex
	requests []request
	status   int
	body     string
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{status: http.StatusOK, body: `{"status":true,"data":{"hotels":[{"hotel_id":7,"property":{"id":7,"name":"Live Hotel"}}]}}`}

	p.origin = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.serve(w, request{via: "origin", path: r.URL.Path, query: r.URL.Query(), headers: r.Header.Clone()})
	}))
	p.prefix = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target, _ := url.Parse(strings.TrimPrefix(r.URL.Path, "/") + "?" + r.URL.RawQuery)
		p.serve(w, request{via: "prefix", path: target.Path, query: target.Query(), headers: r.Header.Clone()})
	}))
	p.query = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := url.QueryUnescape(r.URL.RawQuery)
		target, _ := url.Parse(raw)
		p.serve(w, request{via: "query", path: target.Path, query: target.Query(), headers: r.Header.Clone()})
	}))
	t.Cleanup(p.origin.Close)
	t.Cleanup(p.prefix.Close)
	t.Cleanup(p.query.Close)
	return p
}

func (p *fakeProvider) serve(w http.ResponseWriter, req request) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	status, body := p.status, p.body
	p.mu.Unlock()

	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte(body))
	}
}

func (p *fakeProvider) set(status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status, p.body = status, body
}

func (p *fakeProvider) log() []request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]request(nil), p.requests...)
}

func (p *fakeProvider) options(t *testing.T) (Options, *cache.MemoryStore) {
	t.Helper()
	store := cache.NewMemoryStore(0)
	layer, err := cache.NewLayer(store)
	if err != nil {
		t.Fatalf("NewLayer() error = %v", err)
	}
	return Options{
		BaseURL:        p.origin.URL + "/api/v1/hotels",
		APIKey:         "test-key",
		APIHost:        DefaultHost,
		Layer:          layer,
		AttemptTimeout: 2 * time.Second,
		PrefixProxy:    transport.PrefixProxy(p.prefix.URL + "/"),
		QueryProxy:     transport.QueryProxy(p.query.URL + "/?"),
	}, store
}

func TestSearchService_ProxyFirst(t *testing.T) {
	p := newFakeProvider(t)
	opts, _ := p.options(t)
	svc, err := NewSearchService(opts)
	if err != nil {
		t.Fatalf("NewSearchService() error = %v", err)
	}

	res, err := svc.SearchDestination(context.Background(), " Kigali ")
	if err != nil {
		t.Fatalf("SearchDestination() error = %v", err)
	}
	if res.Provenance != fetch.Fresh {
		t.Errorf("Provenance = %v", res.Provenance)
	}
	if !strings.HasPrefix(res.Key, NamespaceSearch+"_"+EndpointSearchDestination+"_") {
		t.Errorf("Key = %q", res.Key)
	}

	reqs := p.log()
	if len(reqs) != 1 || reqs[0].via != "query" {
		t.Fatalf("requests = %+v, want one via query proxy", reqs)
	}
	if reqs[0].path != "/api/v1/hotels/searchDestination" || reqs[0].query.Get("query") != "Kigali" {
		t.Errorf("proxied target = %s?%s", reqs[0].path, reqs[0].query.Encode())
	}
	if reqs[0].headers.Get(HeaderAPIKey) != "test-key" || reqs[0].headers.Get(HeaderAPIHost) != DefaultHost {
		t.Errorf("provider headers missing: %v", reqs[0].headers)
	}
}

func TestSearchService_StatusFalseReRaised(t *testing.T) {
	p := newFakeProvider(t)
	p.set(http.StatusOK, `{"status":false,"message":"dest_id is invalid"}`)
	opts, store := p.options(t)
	svc, _ := NewSearchService(opts)

	_, err := svc.SearchHotels(context.Background(), "bogus", SearchParams{})
	if !errors.Is(err, transport.ErrStatusFalse) {
		t.Fatalf("error = %v, want ErrStatusFalse", err)
	}
	if !strings.Contains(err.Error(), "dest_id is invalid") {
		t.Errorf("provider message missing: %v", err)
	}
	if vias := p.log(); len(vias) != 2 || vias[0].via != "query" || vias[1].via != "origin" {
		t.Errorf("attempts = %+v, want query then origin", vias)
	}
	if store.Len() != 0 {
		t.Error("rejected response was cached")
	}
}

func TestDetailsService_DirectFirstWithDefaults(t *testing.T) {
	p := newFakeProvider(t)
	p.set(http.StatusOK, `{"status":true,"data":{"hotel_name":"Live Hotel"}}`)
	opts, _ := p.options(t)
	svc, err := NewDetailsService(opts)
	if err != nil {
		t.Fatalf("NewDetailsService() error = %v", err)
	}

	if _, err := svc.HotelDetails(context.Background(), "1300650", StayParams{Adults: 2}); err != nil {
		t.Fatalf("HotelDetails() error = %v", err)
	}

	reqs := p.log()
	if len(reqs) != 1 || reqs[0].via != "origin" {
		t.Fatalf("requests = %+v, want one direct", reqs)
	}
	q := reqs[0].query
	want := map[string]string{
		"hotel_id":       "1300650",
		"adults":         "2",
		"children_age":   "0,17",
		"arrival_date":   "2025-12-20",
		"departure_date": "2025-12-25",
		"languagecode":   "en-us",
		"currency_code":  "USD",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Errorf("param %s = %q, want %q", k, q.Get(k), v)
		}
	}
}

func TestDetailsService_Endpoints(t *testing.T) {
	p := newFakeProvider(t)
	p.set(http.StatusOK, `{"status":true,"data":[]}`)
	opts, _ := p.options(t)
	svc, _ := NewDetailsService(opts)
	ctx := context.Background()

	calls := []struct {
		endpoint string
		call     func() (fetch.Result, error)
	}{
		{EndpointAvailability, func() (fetch.Result, error) { return svc.Availability(ctx, "1", AvailabilityParams{}) }},
		{EndpointQuestions, func() (fetch.Result, error) { return svc.QuestionsAndAnswers(ctx, "1", "") }},
		{EndpointAttractions, func() (fetch.Result, error) { return svc.Attractions(ctx, "1", "fr") }},
		{EndpointReviewScores, func() (fetch.Result, error) { return svc.ReviewScores(ctx, "1", "") }},
		{EndpointPhotos, func() (fetch.Result, error) { return svc.Photos(ctx, "1") }},
		{EndpointPolicies, func() (fetch.Result, error) { return svc.Policies(ctx, "1", "") }},
	}

	for i, c := range calls {
		res, err := c.call()
		if err != nil {
			t.Fatalf("%s: %v", c.endpoint, err)
		}
		if !strings.HasPrefix(res.Key, NamespaceDetails+"_"+c.endpoint+"_") {
			t.Errorf("%s: Key = %q", c.endpoint, res.Key)
		}
		req := p.log()[i]
		if !strings.HasSuffix(req.path, "/"+c.endpoint) {
			t.Errorf("%s: path = %q", c.endpoint, req.path)
		}
	}

	reqs := p.log()
	if got := reqs[0].query.Get("location"); got != "US" {
		t.Errorf("availability location = %q, want US", got)
	}
	if got := reqs[2].query.Get("languagecode"); got != "fr" {
		t.Errorf("attractions languagecode = %q, want fr", got)
	}
	if reqs[4].query.Has("languagecode") {
		t.Error("photos should not send a language")
	}
}

func TestDetailsService_ProxyFallback(t *testing.T) {
	p := newFakeProvider(t)
	opts, _ := p.options(t)
	opts.BaseURL = "http://127.0.0.1:1/api/v1/hotels"
	svc, _ := NewDetailsService(opts)

	if _, err := svc.Photos(context.Background(), "1"); err != nil {
		t.Fatalf("Photos() error = %v", err)
	}
	reqs := p.log()
	if len(reqs) != 1 || reqs[0].via != "prefix" {
		t.Fatalf("requests = %+v, want one via prefix proxy", reqs)
	}
}

func TestListingService_SyntheticFallback(t *testing.T) {
	p := newFakeProvider(t)
	p.set(http.StatusServiceUnavailable, "")
	opts, store := p.options(t)
	svc, err := NewListingService(opts, SampleListings)
	if err != nil {
		t.Fatalf("NewListingService() error = %v", err)
	}

	res, err := svc.UniqueProperties(context.Background())
	if err != nil {
		t.Fatalf("UniqueProperties() error = %v", err)
	}
	if res.Provenance != fetch.Synthetic {
		t.Errorf("Provenance = %v, want synthetic", res.Provenance)
	}
	listings, err := DecodeListings(res)
	if err != nil {
		t.Fatalf("DecodeListings() error = %v", err)
	}
	if len(listings) != 2 || listings[0].Property.Name != "Gorillas Lake Kivu Hotel" || listings[1].HotelID != 1947209 {
		t.Errorf("listings = %+v", listings)
	}
	if len(p.log()) != 2 {
		t.Errorf("network attempts = %d, want 2", len(p.log()))
	}
	if store.Len() != 0 {
		t.Error("synthetic listings were cached")
	}
}

func TestListingService_EmptyCacheNotTrusted(t *testing.T) {
	p := newFakeProvider(t)
	opts, store := p.options(t)
	svc, _ := NewListingService(opts, SampleListings)
	ctx := context.Background()

	key, err := cache.Key(NamespaceListings, EndpointSearchHotels, SearchParams{}.params(DestWeekendDeals).Scrub().Map())
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	opts.Layer.Put(ctx, key, json.RawMessage(`{"status":true,"data":{"hotels":[]}}`))

	res, err := svc.WeekendDeals(ctx)
	if err != nil {
		t.Fatalf("WeekendDeals() error = %v", err)
	}
	listings, _ := DecodeListings(res)
	if len(listings) != 1 || listings[0].Property.Name != "Live Hotel" {
		t.Errorf("listings = %+v, want live result", listings)
	}
	if p.log()[0].query.Get("dest_id") != DestWeekendDeals {
		t.Errorf("dest_id = %q", p.log()[0].query.Get("dest_id"))
	}
	if store.Len() != 1 {
		t.Errorf("store entries = %d, want 1", store.Len())
	}
}

func TestListingService_NoFallbackReRaises(t *testing.T) {
	p := newFakeProvider(t)
	p.set(http.StatusOK, `{"status":true,"data":{"hotels":[]}}`)
	opts, _ := p.options(t)
	svc, _ := NewListingService(opts, nil)

	_, err := svc.UniqueProperties(context.Background())
	if !errors.Is(err, transport.ErrEmptyCollection) {
		t.Errorf("error = %v, want ErrEmptyCollection", err)
	}
}

func TestNewServices_NilLayer(t *testing.T) {
	if _, err := NewSearchService(Options{}); !errors.Is(err, ErrNilLayer) {
		t.Errorf("NewSearchService() error = %v, want ErrNilLayer", err)
	}
	if _, err := NewDetailsService(Options{}); !errors.Is(err, ErrNilLayer) {
		t.Errorf("NewDetailsService() error = %v, want ErrNilLayer", err)
	}
	if _, err := NewListingService(Options{}, nil); !errors.Is(err, ErrNilLayer) {
		t.Errorf("NewListingService() error = %v, want ErrNilLayer", err)
	}
}

func TestSearchParams_Defaults(t *testing.T) {
	got := SearchParams{Adults: 3, CurrencyCode: "EUR"}.params("-1456928")
	want := transport.Params{
		"dest_id":          "-1456928",
		"search_type":      "city",
		"arrival_date":     "2025-12-20",
		"departure_date":   "2025-12-25",
		"adults":           3,
		"children_age":     "0,17",
		"room_qty":         1,
		"page_number":      1,
		"units":            "metric",
		"temperature_unit": "c",
		"languagecode":     "en-us",
		"currency_code":    "EUR",
	}
	if len(got) != len(want) {
		t.Fatalf("params = %v", got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("k")
	if opts.Layer == nil || opts.PrefixProxy == nil || opts.QueryProxy == nil {
		t.Fatalf("DefaultOptions() = %+v", opts)
	}
	h := opts.headers()
	if h.Get(HeaderAPIKey) != "k" || h.Get(HeaderAPIHost) != DefaultHost {
		t.Errorf("headers = %v", h)
	}
	if got := opts.QueryProxy("https://a/b?c=d"); got != DefaultQueryProxy+"https%3A%2F%2Fa%2Fb%3Fc%3Dd" {
		t.Errorf("QueryProxy = %q", got)
	}
}
