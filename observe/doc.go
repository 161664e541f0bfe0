// Package observe provides observability primitives for provider fetches.
//
// It is a pure instrumentation library: no fetching, no caching, no I/O
// beyond exporter setup and log output. The fetch orchestrator wraps each
// logical request with Middleware, which records one span, the fetch
// outcome metrics and a completion log line. Transport attempts are
// recorded separately so path fallbacks are visible in metrics.
package observe
