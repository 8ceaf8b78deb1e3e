package provider

import "github.com/aroundme/aroundme/internal/model"

// maxReviews caps how many review texts a details call attaches to a
// candidate.
const maxReviews = 5

// PlaceDetails is the extended record returned by a provider's details
// endpoint, normalized across providers.
type PlaceDetails struct {
	Source       string             `json:"source"`
	PlaceID      string             `json:"place_id"`
	Name         string             `json:"name"`
	Address      string             `json:"formatted_address"`
	Phone        string             `json:"phone_number,omitempty"`
	IntlPhone    string             `json:"international_phone_number,omitempty"`
	Website      string             `json:"website,omitempty"`
	Rating       float64            `json:"rating"`
	ReviewCount  int                `json:"review_count"`
	PriceLevel   int                `json:"price_level"`
	Categories   []string           `json:"categories,omitempty"`
	OpeningHours []string           `json:"opening_hours,omitempty"`
	IsOpenNow    *bool              `json:"is_open_now,omitempty"`
	Photos       []string           `json:"photos,omitempty"`
	Coordinates  *model.Coordinates `json:"coordinates,omitempty"`
	Reviews      []model.Review     `json:"reviews,omitempty"`
}
