package types

import (
	"errors"
	"math"
)

// Property represents a rentable listing.
type Property struct {
	// ID is the unique identifier of the property.
	ID int `json:"id" db:"id"`

	// OwnerID identifies the user who lists the property.
	OwnerID int `json:"owner_id" db:"owner_id"`

	Name              string `json:"name" db:"name"`
	Description       string `json:"description" db:"description"`
	ThumbnailPhotoURL string `json:"thumbnail_photo_url" db:"thumbnail_photo_url"`
	CoverPhotoURL     string `json:"cover_photo_url" db:"cover_photo_url"`

	// CostPerNight is expressed in cents.
	CostPerNight int `json:"cost_per_night" db:"cost_per_night"`

	ParkingSpaces     int `json:"parking_spaces" db:"parking_spaces"`
	NumberOfBathrooms int `json:"number_of_bathrooms" db:"number_of_bathrooms"`
	NumberOfBedrooms  int `json:"number_of_bedrooms" db:"number_of_bedrooms"`

	Address  string `json:"address" db:"address"`
	City     string `json:"city" db:"city"`
	Province string `json:"province" db:"province"`
	Country  string `json:"country" db:"country"`
	PostCode string `json:"post_code" db:"post_code"`

	Active bool `json:"active" db:"active"`
}

// PropertyListing is a property as returned by a search, carrying the
// average of its review ratings.
type PropertyListing struct {
	Property
	AverageRating float64 `json:"average_rating" db:"average_rating"`
}

// PropertyFilter narrows a property search. A nil field is not applied;
// a non-nil zero value is.
type PropertyFilter struct {
	// City is matched as a substring of the property's city.
	City *string `json:"city,omitempty"`

	// OwnerID restricts results to one owner.
	OwnerID *int `json:"owner_id,omitempty"`

	// MinimumPricePerNight and MaximumPricePerNight are whole currency
	// units and are inclusive.
	MinimumPricePerNight *int `json:"minimum_price_per_night,omitempty"`
	MaximumPricePerNight *int `json:"maximum_price_per_night,omitempty"`

	// MinimumRating is an inclusive lower bound on the average rating.
	MinimumRating *float64 `json:"minimum_rating,omitempty"`
}

// CentsPerUnit converts whole currency units to the cents stored in
// CostPerNight.
const CentsPerUnit = 100

// MaxPricePerNight is the largest whole-unit price whose cents value fits
// the cost_per_night column.
const MaxPricePerNight = math.MaxInt32 / CentsPerUnit

// ErrPriceOutOfRange is returned for a price bound outside
// 0..MaxPricePerNight.
var ErrPriceOutOfRange = errors.New("price per night out of range")

// Validate checks that the price bounds can be converted to cents.
func (f PropertyFilter) Validate() error {
	for _, price := range []*int{f.MinimumPricePerNight, f.MaximumPricePerNight} {
		if price != nil && (*price < 0 || *price > MaxPricePerNight) {
			return ErrPriceOutOfRange
		}
	}
	return nil
}
