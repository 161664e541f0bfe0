package hotels

import (
	"encoding/json"
	"time"

	"github.com/jonwraymond/hotelfetch/fetch"
)

var sampleHotels = []Listing{
	{
		HotelID: 1300650,
		Property: Property{
			ID:              1300650,
			Name:            "Gorillas Lake Kivu Hotel",
			WishlistName:    "Gisenyi",
			ReviewScore:     7.1,
			ReviewScoreWord: "Good",
			ReviewCount:     172,
			PhotoURLs: []string{
				"https://cf.bstatic.com/xdata/images/hotel/square500/42541114.jpg?k=11ec41d109d7729f3cba191ed82174e4f86e53e4b660d6b45c73a86ace5fe8d8&o=",
			},
			PriceBreakdown: PriceBreakdown{
				GrossPrice:         Price{Value: 504.0001, Currency: "USD"},
				StrikethroughPrice: &Price{Value: 720, Currency: "USD"},
				BenefitBadges:      []Badge{{Text: "Black Friday Deal"}},
			},
		},
	},
	{
		HotelID: 1947209,
		Property: Property{
			ID:              1947209,
			Name:            "Paradise Malahide",
			WishlistName:    "Gisenyi",
			ReviewScore:     8.2,
			ReviewScoreWord: "Very Good",
			ReviewCount:     221,
			PhotoURLs: []string{
				"https://cf.bstatic.com/xdata/images/hotel/square500/562046540.jpg?k=c56b282296686b5f8474e15c59f3323cf22aafa0f60780d3eb81b45360eddf21&o=",
			},
			PriceBreakdown: PriceBreakdown{
				GrossPrice:         Price{Value: 418.95, Currency: "USD"},
				StrikethroughPrice: &Price{Value: 465.5, Currency: "USD"},
				BenefitBadges:      []Badge{{Text: "Mobile-only price"}},
			},
		},
	},
}

// SampleListings is a fetch.Fallback serving two canned hotels in the
// searchHotels response shape.
func SampleListings(fetch.RequestSpec) (json.RawMessage, error) {
	page := ListingPage{
		Status:    true,
		Message:   "Success",
		Timestamp: time.Now().UnixMilli(),
	}
	page.Data.Hotels = sampleHotels
	return json.Marshal(page)
}

var _ fetch.Fallback = SampleListings
