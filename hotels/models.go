package hotels

// ListingPage is the searchHotels response envelope.
type ListingPage struct {
	Status    bool   `json:"status"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Data      struct {
		Hotels []Listing `json:"hotels"`
	} `json:"data"`
}

// Listing is one hotel in a search result.
type Listing struct {
	HotelID  int      `json:"hotel_id"`
	Property Property `json:"property"`
}

// Property is the provider's summary of a hotel.
type Property struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	WishlistName    string         `json:"wishlistName,omitempty"`
	ReviewScore     float64        `json:"reviewScore,omitempty"`
	ReviewScoreWord string         `json:"reviewScoreWord,omitempty"`
	ReviewCount     int            `json:"reviewCount,omitempty"`
	PhotoURLs       []string       `json:"photoUrls,omitempty"`
	PriceBreakdown  PriceBreakdown `json:"priceBreakdown"`
}

// PriceBreakdown is the displayed price of a stay.
type PriceBreakdown struct {
	GrossPrice         Price   `json:"grossPrice"`
	StrikethroughPrice *Price  `json:"strikethroughPrice,omitempty"`
	BenefitBadges      []Badge `json:"benefitBadges,omitempty"`
}

// Price is an amount in a currency.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Badge is a promotional label.
type Badge struct {
	Text string `json:"text"`
}
