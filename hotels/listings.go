package hotels

import (
	"context"
	"fmt"

	"github.com/jonwraymond/hotelfetch/fetch"
	"github.com/jonwraymond/hotelfetch/transport"
)

// ListingService fetches the curated hotel lists shown on a landing page.
// It never fails: without provider or cache it serves SampleListings.
type ListingService struct {
	orch *fetch.Orchestrator
}

// NewListingService creates a ListingService. A nil fallback disables the
// synthetic listings, making failures visible to the caller.
func NewListingService(opts Options, fallback fetch.Fallback) (*ListingService, error) {
	orch, err := opts.orchestrator(profile{
		namespace: NamespaceListings,
		order:     transport.DirectThenProxy,
		proxy:     opts.PrefixProxy,
		validate:  transport.RequireNonEmpty("data", "hotels"),
		fallback:  fallback,
	})
	if err != nil {
		return nil, err
	}
	return &ListingService{orch: orch}, nil
}

// UniqueProperties lists distinctive stays.
func (s *ListingService) UniqueProperties(ctx context.Context) (fetch.Result, error) {
	return s.list(ctx, DestUniqueProperties)
}

// WeekendDeals lists discounted weekend stays.
func (s *ListingService) WeekendDeals(ctx context.Context) (fetch.Result, error) {
	return s.list(ctx, DestWeekendDeals)
}

func (s *ListingService) list(ctx context.Context, destID string) (fetch.Result, error) {
	return s.orch.Request(ctx, fetch.RequestSpec{
		Endpoint: EndpointSearchHotels,
		Params:   SearchParams{}.params(destID),
	})
}

// DecodeListings extracts the hotels from a searchHotels payload.
func DecodeListings(res fetch.Result) ([]Listing, error) {
	var page ListingPage
	if err := res.Decode(&page); err != nil {
		return nil, fmt.Errorf("hotels: decode listings: %w", err)
	}
	return page.Data.Hotels, nil
}
