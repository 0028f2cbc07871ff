package types

import "time"

// Reservation is a guest's booking flattened together with the booked
// property and the guest's name.
type Reservation struct {
	ID        int       `json:"reservation_id" db:"reservation_id"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	PropertyID      int    `json:"property_id" db:"property_id"`
	PropertyName    string `json:"property_name" db:"property_name"`
	PropertyAddress string `json:"property_address" db:"property_address"`
	CostPerNight    int    `json:"cost_per_night" db:"cost_per_night"`

	GuestID   int    `json:"guest_id" db:"guest_id"`
	GuestName string `json:"guest_name" db:"guest_name"`
}
