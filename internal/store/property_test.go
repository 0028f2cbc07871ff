package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lightbnb/lightbnb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingColumns() []string {
	return append(append([]string{}, propertyColumns...), "average_rating")
}

func listingRow(id, costPerNight int, city string, rating float64) []driver.Value {
	return []driver.Value{
		id, 1, "Property " + city, "", "", "",
		costPerNight, 1, 1, 2,
		"1 Main Street", city, "BC", "Canada", "V5K 0A1", true,
		rating,
	}
}

func ptr[T any](v T) *T { return &v }

func TestBuildListQueryWithoutFilters(t *testing.T) {
	query, args, err := buildListQuery(types.PropertyFilter{}, 10)
	require.NoError(t, err)

	assert.Contains(t, query, `FROM "properties" INNER JOIN "property_reviews"`)
	assert.Contains(t, query, `AVG("property_reviews"."rating") AS "average_rating"`)
	assert.Contains(t, query, `GROUP BY "properties"."id"`)
	assert.Contains(t, query, `ORDER BY "properties"."cost_per_night" ASC`)
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "HAVING")
	require.Len(t, args, 1)
	assert.EqualValues(t, 10, args[0])
}

func TestBuildListQueryCombinesFiltersInOrder(t *testing.T) {
	filter := types.PropertyFilter{
		City:                 ptr("ancouv"),
		OwnerID:              ptr(4),
		MinimumPricePerNight: ptr(50),
		MaximumPricePerNight: ptr(100),
		MinimumRating:        ptr(4.0),
	}

	query, args, err := buildListQuery(filter, 5)
	require.NoError(t, err)

	assert.Contains(t, query, `"properties"."city" LIKE $1`)
	assert.Contains(t, query, `"properties"."owner_id" = $2`)
	assert.Contains(t, query, `"properties"."cost_per_night" >= $3`)
	assert.Contains(t, query, `"properties"."cost_per_night" <= $4`)
	assert.Contains(t, query, `AVG("property_reviews"."rating") >= $5`)
	assert.Contains(t, query, "LIMIT $6")
	assert.Contains(t, query, " AND ")
	assert.Less(t, strings.Index(query, "GROUP BY"), strings.Index(query, "HAVING"))

	require.Len(t, args, 6)
	assert.Equal(t, "%ancouv%", args[0])
	assert.EqualValues(t, 4, args[1])
	assert.EqualValues(t, 5000, args[2])
	assert.EqualValues(t, 10000, args[3])
	assert.EqualValues(t, 4.0, args[4])
	assert.EqualValues(t, 5, args[5])
}

func TestBuildListQueryAppliesZeroValuedFilters(t *testing.T) {
	query, args, err := buildListQuery(types.PropertyFilter{
		MinimumPricePerNight: ptr(0),
		MinimumRating:        ptr(0.0),
	}, 10)
	require.NoError(t, err)

	assert.Contains(t, query, `"properties"."cost_per_night" >= $1`)
	assert.Contains(t, query, "HAVING")
	require.Len(t, args, 3)
	assert.EqualValues(t, 0, args[0])
}

func TestPropertyRepositoryListPriceRange(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPropertyRepository(db)

	mock.ExpectQuery(`(?s)WHERE .*"properties"."cost_per_night" >= \$1.*"properties"."cost_per_night" <= \$2.*ORDER BY "properties"."cost_per_night" ASC LIMIT \$3`).
		WithArgs(5000, 10000, 5).
		WillReturnRows(sqlmock.NewRows(listingColumns()).
			AddRow(listingRow(2, 5000, "Vancouver", 4.5)...).
			AddRow(listingRow(9, 7500, "Calgary", 3.25)...).
			AddRow(listingRow(3, 10000, "Vancouver", 4)...))

	listings, err := repo.List(context.Background(), types.PropertyFilter{
		MinimumPricePerNight: ptr(50),
		MaximumPricePerNight: ptr(100),
	}, 5)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	for i, listing := range listings {
		assert.GreaterOrEqual(t, listing.CostPerNight, 5000)
		assert.LessOrEqual(t, listing.CostPerNight, 10000)
		if i > 0 {
			assert.LessOrEqual(t, listings[i-1].CostPerNight, listing.CostPerNight)
		}
	}
	assert.Equal(t, 4.5, listings[0].AverageRating)
	assert.Equal(t, "Vancouver", listings[0].City)
}

func TestPropertyRepositoryListMinimumRating(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPropertyRepository(db)

	mock.ExpectQuery(`HAVING .*AVG\("property_reviews"\."rating"\) >= \$1`).
		WithArgs(4.0, 10).
		WillReturnRows(sqlmock.NewRows(listingColumns()).
			AddRow(listingRow(2, 5000, "Vancouver", 4.5)...))

	listings, err := repo.List(context.Background(), types.PropertyFilter{MinimumRating: ptr(4.0)}, 10)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.GreaterOrEqual(t, listings[0].AverageRating, 4.0)
}

func TestPropertyRepositoryCreate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPropertyRepository(db)

	property := types.Property{
		OwnerID:      1,
		Name:         "Cozy loft",
		CostPerNight: 12500,
		City:         "Montreal",
		Active:       true,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO properties (")).
		WithArgs(1, "Cozy loft", "", "", "", 12500, 0, 0, 0, "", "Montreal", "", "", "", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1001))

	created, err := repo.Create(context.Background(), property)
	require.NoError(t, err)
	assert.Equal(t, 1001, created.ID)
	assert.Equal(t, "Cozy loft", created.Name)
}

func TestBuildListQueryRejectsPricesOutsideColumnRange(t *testing.T) {
	for _, price := range []int{30000000, 100000000000000000} {
		_, _, err := buildListQuery(types.PropertyFilter{MaximumPricePerNight: ptr(price)}, 10)
		assert.ErrorIs(t, err, types.ErrPriceOutOfRange, price)
	}

	_, args, err := buildListQuery(types.PropertyFilter{MaximumPricePerNight: ptr(types.MaxPricePerNight)}, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2147483600, args[0])
}
