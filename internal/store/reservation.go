package store

import (
	"context"
	"database/sql"

	"github.com/lightbnb/lightbnb/types"
)

// ReservationRepository reads reservations. It never writes them.
type ReservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// ListByGuest returns up to limit reservations made by the guest. No ordering
// is applied, so the order is whatever the database produces.
func (r *ReservationRepository) ListByGuest(ctx context.Context, guestID, limit int) ([]types.Reservation, error) {
	const query = `
		SELECT reservations.id, reservations.start_date, reservations.end_date,
			properties.id, properties.name, properties.address, properties.cost_per_night,
			users.id, users.name
		FROM reservations
		JOIN properties ON reservations.property_id = properties.id
		JOIN users ON reservations.guest_id = users.id
		WHERE reservations.guest_id = $1
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, guestID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := []types.Reservation{}
	for rows.Next() {
		var reservation types.Reservation
		if err := rows.Scan(
			&reservation.ID,
			&reservation.StartDate,
			&reservation.EndDate,
			&reservation.PropertyID,
			&reservation.PropertyName,
			&reservation.PropertyAddress,
			&reservation.CostPerNight,
			&reservation.GuestID,
			&reservation.GuestName,
		); err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}
