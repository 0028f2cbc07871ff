package store

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lightbnb/lightbnb/types"
)

var dialect = goqu.Dialect("postgres")

var propertyColumns = []string{
	"id", "owner_id", "name", "description", "thumbnail_photo_url", "cover_photo_url",
	"cost_per_night", "parking_spaces", "number_of_bathrooms", "number_of_bedrooms",
	"address", "city", "province", "country", "post_code", "active",
}

// PropertyRepository handles persistence for properties.
type PropertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// List searches properties that have at least one review. Results are
// grouped per property, ordered by cost per night and capped at limit.
func (r *PropertyRepository) List(ctx context.Context, filter types.PropertyFilter, limit int) ([]types.PropertyListing, error) {
	query, args, err := buildListQuery(filter, limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []types.PropertyListing{}
	for rows.Next() {
		var listing types.PropertyListing
		dest := append(propertyDest(&listing.Property), &listing.AverageRating)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return listings, nil
}

func (r *PropertyRepository) Create(ctx context.Context, property types.Property) (types.Property, error) {
	const query = `
		INSERT INTO properties (
			owner_id, name, description, thumbnail_photo_url, cover_photo_url,
			cost_per_night, parking_spaces, number_of_bathrooms, number_of_bedrooms,
			address, city, province, country, post_code, active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		property.OwnerID,
		property.Name,
		property.Description,
		property.ThumbnailPhotoURL,
		property.CoverPhotoURL,
		property.CostPerNight,
		property.ParkingSpaces,
		property.NumberOfBathrooms,
		property.NumberOfBedrooms,
		property.Address,
		property.City,
		property.Province,
		property.Country,
		property.PostCode,
		property.Active,
	).Scan(&property.ID); err != nil {
		return types.Property{}, err
	}
	return property, nil
}

func buildListQuery(filter types.PropertyFilter, limit int) (string, []any, error) {
	if err := filter.Validate(); err != nil {
		return "", nil, err
	}

	averageRating := goqu.AVG(goqu.I("property_reviews.rating"))

	selects := make([]any, 0, len(propertyColumns)+1)
	for _, column := range propertyColumns {
		selects = append(selects, goqu.I("properties."+column))
	}
	selects = append(selects, averageRating.As("average_rating"))

	ds := dialect.From("properties").
		Prepared(true).
		Select(selects...).
		Join(
			goqu.T("property_reviews"),
			goqu.On(goqu.I("properties.id").Eq(goqu.I("property_reviews.property_id"))),
		)

	var conditions []exp.Expression
	if filter.City != nil {
		conditions = append(conditions, goqu.I("properties.city").Like("%"+*filter.City+"%"))
	}
	if filter.OwnerID != nil {
		conditions = append(conditions, goqu.I("properties.owner_id").Eq(*filter.OwnerID))
	}
	if filter.MinimumPricePerNight != nil {
		conditions = append(conditions, goqu.I("properties.cost_per_night").Gte(*filter.MinimumPricePerNight*types.CentsPerUnit))
	}
	if filter.MaximumPricePerNight != nil {
		conditions = append(conditions, goqu.I("properties.cost_per_night").Lte(*filter.MaximumPricePerNight*types.CentsPerUnit))
	}
	if len(conditions) > 0 {
		ds = ds.Where(conditions...)
	}

	ds = ds.GroupBy(goqu.I("properties.id"))
	if filter.MinimumRating != nil {
		ds = ds.Having(averageRating.Gte(*filter.MinimumRating))
	}

	return ds.
		Order(goqu.I("properties.cost_per_night").Asc()).
		Limit(uint(limit)).
		ToSQL()
}

func propertyDest(property *types.Property) []any {
	return []any{
		&property.ID,
		&property.OwnerID,
		&property.Name,
		&property.Description,
		&property.ThumbnailPhotoURL,
		&property.CoverPhotoURL,
		&property.CostPerNight,
		&property.ParkingSpaces,
		&property.NumberOfBathrooms,
		&property.NumberOfBedrooms,
		&property.Address,
		&property.City,
		&property.Province,
		&property.Country,
		&property.PostCode,
		&property.Active,
	}
}
