/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/lightbnb/lightbnb/config"
	"github.com/lightbnb/lightbnb/internal/db"
	"github.com/lightbnb/lightbnb/internal/fixture"
	"github.com/lightbnb/lightbnb/internal/logger"
	"github.com/lightbnb/lightbnb/internal/services"
	"github.com/lightbnb/lightbnb/internal/store"
	"github.com/spf13/cobra"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture users and properties into the database",
	Long: `Reads users.json and properties.json from the configured fixture
source (FIXTURE_SOURCE) and inserts them into the database. Users that
already exist are matched by email.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		log := logger.New(cfg)
		ctx := cmd.Context()

		source, err := fixture.NewSource(ctx, cfg)
		if err != nil {
			return err
		}
		defer source.Close()

		fixtures, err := fixture.Load(ctx, source)
		if err != nil {
			return fmt.Errorf("load fixtures: %w", err)
		}

		dbConn, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		dal := services.NewDataAccess(services.Repositories{
			Users:        store.NewUserRepository(dbConn),
			Properties:   store.NewPropertyRepository(dbConn),
			Reservations: store.NewReservationRepository(dbConn),
		}, log)

		result, err := dal.Seed(ctx, fixtures.Users(), fixtures.Properties())
		if err != nil {
			return err
		}

		log.Info().
			Int("users_created", result.UsersCreated).
			Int("users_existing", result.UsersExisting).
			Int("properties_created", result.PropertiesCreated).
			Int("properties_skipped", result.PropertiesSkipped).
			Msg("seed complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
