package health

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jonwraymond/hotelfetch/cache"
	"github.com/jonwraymond/hotelfetch/resilience"
)

// ProbeKey is the store key written by StoreChecker.
const ProbeKey = "hotelfetch_health_probe"

type pinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker verifies a cache store by writing and reading back a probe
// value. A store that is full reports degraded: reads still serve stale
// entries even though new responses cannot be cached.
type StoreChecker struct {
	name  string
	store cache.Store
}

// NewStoreChecker creates a StoreChecker.
func NewStoreChecker(name string, store cache.Store) *StoreChecker {
	return &StoreChecker{name: name, store: store}
}

// Name returns the checker name.
func (c *StoreChecker) Name() string { return c.name }

// Check round-trips the probe value.
func (c *StoreChecker) Check(ctx context.Context) Result {
	if p, ok := c.store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return Unhealthy("store unreachable", err)
		}
	}

	want := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := c.store.Set(ctx, ProbeKey, want); err != nil {
		if errors.Is(err, cache.ErrQuotaExceeded) {
			return Degraded("store is full", err)
		}
		return Unhealthy("store write failed", err)
	}

	got, ok, err := c.store.Get(ctx, ProbeKey)
	switch {
	case err != nil:
		return Unhealthy("store read failed", err)
	case !ok || got != want:
		return Unhealthy("store lost probe value", fmt.Errorf("%w: got %q", ErrProbeMismatch, got))
	}
	return Healthy("store round-trip ok")
}

// BreakerChecker reports the state of a provider circuit breaker.
type BreakerChecker struct {
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a BreakerChecker.
func NewBreakerChecker(breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{breaker: breaker}
}

// Name returns "breaker:<name>".
func (c *BreakerChecker) Name() string {
	return "breaker:" + c.breaker.Name()
}

// Check maps closed, half-open and open onto healthy, degraded and unhealthy.
func (c *BreakerChecker) Check(context.Context) Result {
	m := c.breaker.Metrics()
	details := map[string]any{
		"state":    m.State.String(),
		"failures": m.Failures,
	}
	if !m.LastFailure.IsZero() {
		details["last_failure"] = m.LastFailure.Format(time.RFC3339)
	}

	var r Result
	switch m.State {
	case resilience.StateOpen:
		r = Unhealthy("provider circuit open", resilience.ErrCircuitOpen)
	case resilience.StateHalfOpen:
		r = Degraded("provider circuit probing", nil)
	default:
		r = Healthy("provider circuit closed")
	}
	return r.WithDetails(details)
}

var (
	_ Checker = (*StoreChecker)(nil)
	_ Checker = (*BreakerChecker)(nil)
	_ Checker = (*CheckerFunc)(nil)
)
