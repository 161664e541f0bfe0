package hotels

import (
	"context"
	"strings"

	"github.com/jonwraymond/hotelfetch/fetch"
	"github.com/jonwraymond/hotelfetch/transport"
)

// SearchService looks up destinations and the hotels in them.
type SearchService struct {
	orch *fetch.Orchestrator
}

// NewSearchService creates a SearchService.
func NewSearchService(opts Options) (*SearchService, error) {
	orch, err := opts.orchestrator(profile{
		namespace:  NamespaceSearch,
		order:      transport.ProxyThenDirect,
		proxy:      opts.QueryProxy,
		validate:   transport.RequireStatus(),
		trustEmpty: true,
	})
	if err != nil {
		return nil, err
	}
	return &SearchService{orch: orch}, nil
}

// SearchDestination resolves a free-text query to provider destinations.
func (s *SearchService) SearchDestination(ctx context.Context, query string) (fetch.Result, error) {
	return s.orch.Request(ctx, fetch.RequestSpec{
		Endpoint: EndpointSearchDestination,
		Params:   transport.Params{"query": strings.TrimSpace(query)},
	})
}

// SearchHotels lists hotels in a destination.
func (s *SearchService) SearchHotels(ctx context.Context, destID string, p SearchParams) (fetch.Result, error) {
	return s.orch.Request(ctx, fetch.RequestSpec{
		Endpoint: EndpointSearchHotels,
		Params:   p.params(destID),
	})
}
