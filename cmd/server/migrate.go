package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"essence/storefront/internal/config"
	"essence/storefront/internal/httpapi"
	"essence/storefront/internal/store/memory"
	pgstore "essence/storefront/internal/store/postgres"
)

var seedCatalog bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the PostgreSQL schema",
	Long: `Applies the embedded schema to the database named by DATABASE_URL.
With --seed the default perfume catalog is upserted afterwards, and an admin
login is created from SEED_ADMIN_USERNAME and SEED_ADMIN_PASSWORD when both are set.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&seedCatalog, "seed", false, "upsert the default catalog after migrating")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg)
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migrate")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := pgstore.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("schema applied")

	if seedCatalog {
		products := memory.SeedProducts()
		if err := pg.UpsertProducts(ctx, products); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		log.WithField("products", len(products)).Info("catalog seeded")

		if err := seedAdmin(ctx, cfg, pg); err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, cfg config.Config, users httpapi.UserStore) error {
	if cfg.SeedAdminUsername == "" || cfg.SeedAdminPassword == "" {
		log.Warn("SEED_ADMIN_USERNAME or SEED_ADMIN_PASSWORD not set, no admin account seeded")
		return nil
	}
	if err := httpapi.BootstrapAdmin(ctx, users, cfg.SeedAdminUsername, cfg.SeedAdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
