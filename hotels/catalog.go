package hotels

import (
	"github.com/jonwraymond/hotelfetch/transport"
)

// Provider defaults.
const (
	DefaultBaseURL = "https://booking-com15.p.rapidapi.com/api/v1/hotels"
	DefaultHost    = "booking-com15.p.rapidapi.com"

	// DefaultPrefixProxy is prepended verbatim to the origin URL.
	DefaultPrefixProxy = "https://cors-anywhere.herokuapp.com/"
	// DefaultQueryProxy takes the query-escaped origin URL.
	DefaultQueryProxy = "https://corsproxy.io/?"

	HeaderAPIKey  = "x-rapidapi-key"
	HeaderAPIHost = "x-rapidapi-host"
)

// Cache namespaces, one per service.
const (
	NamespaceSearch   = "booking_search"
	NamespaceDetails  = "booking_details"
	NamespaceListings = "booking_api"
)

// Endpoint ids relative to the base URL.
const (
	EndpointSearchDestination = "searchDestination"
	EndpointSearchHotels      = "searchHotels"
	EndpointHotelDetails      = "getHotelDetails"
	EndpointAvailability      = "getAvailability"
	EndpointQuestions         = "getQuestionAndAnswer"
	EndpointAttractions       = "getPopularAttractionNearBy"
	EndpointReviewScores      = "getHotelReviewScores"
	EndpointPhotos            = "getHotelPhotos"
	EndpointPolicies          = "getHotelPolicies"
)

// Listing destinations.
const (
	DestUniqueProperties = "-2181358"
	DestWeekendDeals     = "-2180508"
)

const defaultLanguage = "en-us"

// SearchParams are the optional searchHotels parameters. Zero fields take
// the default shown.
type SearchParams struct {
	SearchType      string // city
	ArrivalDate     string // 2025-12-20
	DepartureDate   string // 2025-12-25
	Adults          int    // 1
	ChildrenAge     string // 0,17
	RoomQty         int    // 1
	PageNumber      int    // 1
	Units           string // metric
	TemperatureUnit string // c
	LanguageCode    string // en-us
	CurrencyCode    string // USD
}

func (p SearchParams) params(destID string) transport.Params {
	return transport.Params{
		"dest_id":          destID,
		"search_type":      or(p.SearchType, "city"),
		"arrival_date":     or(p.ArrivalDate, "2025-12-20"),
		"departure_date":   or(p.DepartureDate, "2025-12-25"),
		"adults":           orInt(p.Adults, 1),
		"children_age":     or(p.ChildrenAge, "0,17"),
		"room_qty":         orInt(p.RoomQty, 1),
		"page_number":      orInt(p.PageNumber, 1),
		"units":            or(p.Units, "metric"),
		"temperature_unit": or(p.TemperatureUnit, "c"),
		"languagecode":     or(p.LanguageCode, defaultLanguage),
		"currency_code":    or(p.CurrencyCode, "USD"),
	}
}

// StayParams are the optional getHotelDetails parameters.
type StayParams struct {
	Adults          int    // 1
	ChildrenAge     string // 0,17
	RoomQty         int    // 1
	Units           string // metric
	TemperatureUnit string // c
	LanguageCode    string // en-us
	CurrencyCode    string // USD
	ArrivalDate     string // 2025-12-20
	DepartureDate   string // 2025-12-25
}

func (p StayParams) params(hotelID string) transport.Params {
	return transport.Params{
		"hotel_id":         hotelID,
		"adults":           orInt(p.Adults, 1),
		"children_age":     or(p.ChildrenAge, "0,17"),
		"room_qty":         orInt(p.RoomQty, 1),
		"units":            or(p.Units, "metric"),
		"temperature_unit": or(p.TemperatureUnit, "c"),
		"languagecode":     or(p.LanguageCode, defaultLanguage),
		"currency_code":    or(p.CurrencyCode, "USD"),
		"arrival_date":     or(p.ArrivalDate, "2025-12-20"),
		"departure_date":   or(p.DepartureDate, "2025-12-25"),
	}
}

// AvailabilityParams are the optional getAvailability parameters.
type AvailabilityParams struct {
	MinDate      string // 2025-11-21
	MaxDate      string // 2025-11-28
	RoomQty      int    // 1
	Adults       int    // 1
	CurrencyCode string // USD
	Location     string // US
}

func (p AvailabilityParams) params(hotelID string) transport.Params {
	return transport.Params{
		"hotel_id":      hotelID,
		"min_date":      or(p.MinDate, "2025-11-21"),
		"max_date":      or(p.MaxDate, "2025-11-28"),
		"room_qty":      orInt(p.RoomQty, 1),
		"adults":        orInt(p.Adults, 1),
		"currency_code": or(p.CurrencyCode, "USD"),
		"location":      or(p.Location, "US"),
	}
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
