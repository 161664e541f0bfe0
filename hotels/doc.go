// Package hotels exposes the provider's hotel endpoints as three services,
// each a thin configuration of fetch.Orchestrator:
//
//   - SearchService (namespace booking_search) goes through the query-style
//     proxy first and falls back to the origin. Failures are returned.
//   - DetailsService (namespace booking_details) calls the origin first and
//     falls back to the prefix-style proxy. Failures are returned.
//   - ListingService (namespace booking_api) calls the origin first, does
//     not trust cached results without hotels, and serves SampleListings
//     when nothing else is available.
//
// Default request parameters mirror the provider's documented examples.
package hotels
