package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/moajmalnk/faisytkd/internal/server"
)

func migrateCmd() *cobra.Command {
	var seedDemo bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the ledger schema and seed default categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := server.OpenPostgres(ctx, cfg.Server.DatabaseURL, connectRetry)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := server.Migrate(ctx, store.DB()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			slog.Info("Migration completed successfully")

			if seedDemo {
				if err := server.SeedDemo(ctx, store, time.Now()); err != nil {
					return fmt.Errorf("seeding demo data failed: %w", err)
				}
				slog.Info("Demo data seeded")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seedDemo, "seed-demo", false, "seed demo accounts and transactions (idempotent)")

	return cmd
}
