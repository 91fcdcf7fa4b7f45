package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freelancehub/api/internal/infrastructure/config"
	"github.com/freelancehub/api/internal/infrastructure/db"
	"github.com/freelancehub/api/internal/infrastructure/db/sqlstore"
	"github.com/freelancehub/api/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage SQL schema migrations",
	Long: `Apply or inspect the embedded goose migrations for the postgres and
sqlite drivers. The mongo driver creates its indexes on startup instead.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSQLStore(cmd.Context(), func(ctx context.Context, sqlDB *sqlstore.DB) error {
			if err := sqlDB.Migrate(ctx); err != nil {
				return err
			}
			log := logger.Named("migrate")
			log.Info().Str("driver", cfg.Store.Driver).Msg("migrations applied")
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations have been applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSQLStore(cmd.Context(), func(ctx context.Context, sqlDB *sqlstore.DB) error {
			return sqlDB.MigrationStatus(ctx)
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
}

// withSQLStore opens the configured relational store without applying
// migrations and hands it to fn.
func withSQLStore(ctx context.Context, fn func(context.Context, *sqlstore.DB) error) error {
	switch cfg.Store.Driver {
	case config.DriverPostgres, config.DriverSQLite:
	default:
		return fmt.Errorf("migrate: STORE_DRIVER %q has no SQL schema", cfg.Store.Driver)
	}

	local := *cfg
	local.Store.AutoMigrate = false
	store, err := db.Open(ctx, &local)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	sqlDB, _ := store.SQL()
	return fn(ctx, sqlDB)
}
