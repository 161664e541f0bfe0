// Package health reports whether the client's dependencies can serve
// requests: the cache store and, when configured, the provider circuit
// breaker.
//
// Checkers return a Result with a Status. The Aggregator runs them
// concurrently under a timeout and folds the results into one overall
// status: any unhealthy check makes the whole unhealthy, otherwise any
// degraded check makes it degraded.
package health
