package services

import (
	"context"

	"github.com/lightbnb/lightbnb/types"
)

// SeedResult counts what Seed wrote.
type SeedResult struct {
	UsersCreated      int
	UsersExisting     int
	PropertiesCreated int
	PropertiesSkipped int
}

// Seed inserts fixture users and their properties. Users whose email is
// already stored are reused. Fixture owner ids are remapped to the stored
// user ids, and properties whose owner is not among users are skipped.
func (d *DataAccess) Seed(ctx context.Context, users []types.User, properties []types.Property) (SeedResult, error) {
	var result SeedResult
	owners := make(map[int]int, len(users))

	for _, user := range users {
		existing, err := d.GetUserWithEmail(ctx, user.Email)
		if err != nil {
			return result, err
		}
		if existing != nil {
			owners[user.ID] = existing.ID
			result.UsersExisting++
			continue
		}

		created, err := d.AddUser(ctx, types.NewUser{Name: user.Name, Email: user.Email, Password: user.Password})
		if err != nil {
			return result, err
		}
		owners[user.ID] = created.ID
		result.UsersCreated++
	}

	for _, property := range properties {
		ownerID, ok := owners[property.OwnerID]
		if !ok {
			d.log.Warn().Int("property_id", property.ID).Int("owner_id", property.OwnerID).Msg("skipping property with unknown owner")
			result.PropertiesSkipped++
			continue
		}
		property.ID = 0
		property.OwnerID = ownerID
		if _, err := d.properties.Create(ctx, property); err != nil {
			return result, d.fail("seed", err)
		}
		result.PropertiesCreated++
	}

	return result, nil
}
