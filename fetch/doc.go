// Package fetch implements the cache-first fetch policy shared by every
// provider collaborator.
//
// An Orchestrator serves one namespace. For each request it:
//
//  1. derives a cache key from the namespace, endpoint and scrubbed params;
//  2. returns a fresh cached payload when one exists and is trusted;
//  3. otherwise asks its transport for the payload and caches the result;
//  4. on transport failure returns the cached payload regardless of age;
//  5. with nothing cached, returns a synthetic payload from the configured
//     Fallback, or the transport error when there is no Fallback.
//
// The differences between collaborators are configuration: the transport
// path order, the response Validator, whether an empty cached hit is
// trusted, and the terminal Fallback.
package fetch
