// Package transport delivers one provider request over up to two network
// paths.
//
// A Resolver is configured with a path Order. DirectThenProxy calls the
// origin first and falls back once through a URL-wrapping proxy;
// ProxyThenDirect does the reverse. Either way a logical request makes at
// most two network attempts: there is no retry loop, no backoff and no
// jitter.
//
// An attempt succeeds only on a 2xx status with a JSON body that passes
// the caller's Validator. Anything else becomes a *TransportError or a
// *StructuralError, and the alternate path is tried once.
//
// Params carries the query parameters of a request. Scrub removes empty
// values so they never reach the provider, and Encode renders a
// deterministic query string.
package transport
