// Package resilience guards outbound provider calls.
//
// The patterns are deliberately small: a per-attempt Timeout, a
// CircuitBreaker that short-circuits calls to a provider that keeps
// failing, and a RateLimiter that bounds request rate against a provider
// quota. Executor composes them in a fixed order:
//
//	rate limiter -> circuit breaker -> timeout -> operation
//
// There is no retry pattern: the transport layer makes at most one
// alternate-path attempt and never retries the same path.
//
//	exec := resilience.NewExecutor(
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 5, Burst: 5})),
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{MaxFailures: 5})),
//	    resilience.WithTimeout(15*time.Second),
//	)
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return send(ctx)
//	})
package resilience
