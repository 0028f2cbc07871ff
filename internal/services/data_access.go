package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lightbnb/lightbnb/internal/store"
	"github.com/lightbnb/lightbnb/types"
	"github.com/rs/zerolog"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByID(ctx context.Context, id int) (types.User, error)
	Create(ctx context.Context, user types.NewUser) (types.User, error)
}

// PropertyRepository defines persistence operations for properties.
type PropertyRepository interface {
	List(ctx context.Context, filter types.PropertyFilter, limit int) ([]types.PropertyListing, error)
	Create(ctx context.Context, property types.Property) (types.Property, error)
}

// PropertyWriter stores new properties.
type PropertyWriter interface {
	Create(ctx context.Context, property types.Property) (types.Property, error)
}

// UserLookup resolves users by id.
type UserLookup interface {
	GetByID(ctx context.Context, id int) (types.User, error)
}

// ReservationRepository defines read operations for reservations.
type ReservationRepository interface {
	ListByGuest(ctx context.Context, guestID, limit int) ([]types.Reservation, error)
}

// Repositories groups the backends used by DataAccess. PropertyWriter is
// optional and defaults to Properties. PropertyOwners resolves the owners of
// new properties and defaults to Users.
type Repositories struct {
	Users          UserRepository
	Properties     PropertyRepository
	Reservations   ReservationRepository
	PropertyWriter PropertyWriter
	PropertyOwners UserLookup
}

// DataAccess is the data-access layer used by route handlers. Lookups that
// match nothing return a nil record and a nil error. Store failures are
// logged and returned unchanged.
type DataAccess struct {
	users          UserRepository
	properties     PropertyRepository
	reservations   ReservationRepository
	propertyWriter PropertyWriter
	propertyOwners UserLookup
	log            zerolog.Logger
}

// NewDataAccess builds the data-access layer over repos.
func NewDataAccess(repos Repositories, log zerolog.Logger) *DataAccess {
	writer := repos.PropertyWriter
	if writer == nil {
		writer = repos.Properties
	}
	var owners UserLookup = repos.Users
	if repos.PropertyOwners != nil {
		owners = repos.PropertyOwners
	}
	return &DataAccess{
		users:          repos.Users,
		properties:     repos.Properties,
		reservations:   repos.Reservations,
		propertyWriter: writer,
		propertyOwners: owners,
		log:            log.With().Str("component", "dal").Logger(),
	}
}

// GetUserWithEmail looks a user up by email, ignoring case.
func (d *DataAccess) GetUserWithEmail(ctx context.Context, email string) (*types.User, error) {
	user, err := d.users.GetByEmail(ctx, strings.ToLower(email))
	return d.optionalUser("getUserWithEmail", user, err)
}

// GetUserWithID looks a user up by id.
func (d *DataAccess) GetUserWithID(ctx context.Context, id int) (*types.User, error) {
	user, err := d.users.GetByID(ctx, id)
	return d.optionalUser("getUserWithId", user, err)
}

// AddUser inserts the user and returns the stored row. The email is stored
// lower-cased so that it can be found again by GetUserWithEmail. A duplicate
// email surfaces as the store's unique-violation error.
func (d *DataAccess) AddUser(ctx context.Context, user types.NewUser) (types.User, error) {
	user.Email = strings.ToLower(user.Email)
	created, err := d.users.Create(ctx, user)
	if err != nil {
		return types.User{}, d.fail("addUser", err)
	}
	return created, nil
}

// GetAllReservations lists a guest's reservations in no particular order.
func (d *DataAccess) GetAllReservations(ctx context.Context, guestID, limit int) ([]types.Reservation, error) {
	reservations, err := d.reservations.ListByGuest(ctx, guestID, ClampLimit(limit))
	if err != nil {
		return nil, d.fail("getAllReservations", err)
	}
	return reservations, nil
}

// GetAllProperties searches properties, cheapest first.
func (d *DataAccess) GetAllProperties(ctx context.Context, filter types.PropertyFilter, limit int) ([]types.PropertyListing, error) {
	limit = ClampLimit(limit)
	d.log.Debug().Interface("filter", filter).Int("limit", limit).Msg("searching properties")

	listings, err := d.properties.List(ctx, filter, limit)
	if err != nil {
		return nil, d.fail("getAllProperties", err)
	}
	return listings, nil
}

// GetPropertyOwner looks up a prospective owner in the same backend that
// AddProperty writes to.
func (d *DataAccess) GetPropertyOwner(ctx context.Context, id int) (*types.User, error) {
	user, err := d.propertyOwners.GetByID(ctx, id)
	return d.optionalUser("getPropertyOwner", user, err)
}

// AddProperty stores the property through the configured writer and
// returns it with its assigned id.
func (d *DataAccess) AddProperty(ctx context.Context, property types.Property) (types.Property, error) {
	created, err := d.propertyWriter.Create(ctx, property)
	if err != nil {
		return types.Property{}, d.fail("addProperty", err)
	}
	return created, nil
}

// ClampLimit maps non-positive limits to DefaultLimit and caps the rest at
// MaxLimit.
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func (d *DataAccess) optionalUser(op string, user types.User, err error) (*types.User, error) {
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, d.fail(op, err)
	}
	return &user, nil
}

func (d *DataAccess) fail(op string, err error) error {
	event := d.log.Error().Err(err).Str("op", op)
	if code := store.SQLState(err); code != "" {
		event = event.Str("sqlstate", code)
	}
	event.Msg("query failed")
	return err
}
