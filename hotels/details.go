package hotels

import (
	"context"

	"github.com/jonwraymond/hotelfetch/fetch"
	"github.com/jonwraymond/hotelfetch/transport"
)

// DetailsService fetches per-hotel data for a details page.
type DetailsService struct {
	orch *fetch.Orchestrator
}

// NewDetailsService creates a DetailsService.
func NewDetailsService(opts Options) (*DetailsService, error) {
	orch, err := opts.orchestrator(profile{
		namespace:  NamespaceDetails,
		order:      transport.DirectThenProxy,
		proxy:      opts.PrefixProxy,
		validate:   transport.RequireStatus(),
		trustEmpty: true,
	})
	if err != nil {
		return nil, err
	}
	return &DetailsService{orch: orch}, nil
}

// HotelDetails fetches the main details of a hotel for a stay.
func (s *DetailsService) HotelDetails(ctx context.Context, hotelID string, p StayParams) (fetch.Result, error) {
	return s.request(ctx, EndpointHotelDetails, p.params(hotelID))
}

// Availability fetches room availability over a date range.
func (s *DetailsService) Availability(ctx context.Context, hotelID string, p AvailabilityParams) (fetch.Result, error) {
	return s.request(ctx, EndpointAvailability, p.params(hotelID))
}

// QuestionsAndAnswers fetches guest questions. An empty language means en-us.
func (s *DetailsService) QuestionsAndAnswers(ctx context.Context, hotelID, language string) (fetch.Result, error) {
	return s.request(ctx, EndpointQuestions, localized(hotelID, language))
}

// Attractions fetches popular attractions near the hotel.
func (s *DetailsService) Attractions(ctx context.Context, hotelID, language string) (fetch.Result, error) {
	return s.request(ctx, EndpointAttractions, localized(hotelID, language))
}

// ReviewScores fetches the review score breakdown.
func (s *DetailsService) ReviewScores(ctx context.Context, hotelID, language string) (fetch.Result, error) {
	return s.request(ctx, EndpointReviewScores, localized(hotelID, language))
}

// Photos fetches the hotel photo list.
func (s *DetailsService) Photos(ctx context.Context, hotelID string) (fetch.Result, error) {
	return s.request(ctx, EndpointPhotos, transport.Params{"hotel_id": hotelID})
}

// Policies fetches the hotel policies.
func (s *DetailsService) Policies(ctx context.Context, hotelID, language string) (fetch.Result, error) {
	return s.request(ctx, EndpointPolicies, localized(hotelID, language))
}

func (s *DetailsService) request(ctx context.Context, endpoint string, params transport.Params) (fetch.Result, error) {
	return s.orch.Request(ctx, fetch.RequestSpec{Endpoint: endpoint, Params: params})
}

func localized(hotelID, language string) transport.Params {
	return transport.Params{
		"hotel_id":     hotelID,
		"languagecode": or(language, defaultLanguage),
	}
}
