// Package cache provides the persistent cache layer for provider responses.
//
// A Store is a plain string key-value store with no built-in expiry; the
// package ships memory, filesystem and Redis stores. Layer writes
// timestamped entries into a Store and judges freshness against an expiry
// window on read. Entries are never removed by the layer: an expired entry
// stays readable so it can be served as a stale fallback. Key derives
// deterministic, namespaced keys from request parameters.
//
// Caching is best-effort. Read failures (missing, unreadable or corrupt
// entries) are reported as "no cache" and write failures are logged and
// swallowed; neither ever fails the caller.
package cache
