package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			slog.Info("Running database migrations", "driver", a.cfg.DB.Driver)

			store, err := openStore(cmd.Context(), a.cfg.DB)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if err := store.Close(); err != nil {
				return fmt.Errorf("failed to close store: %w", err)
			}

			slog.Info("Database migrations completed")
			return nil
		},
	}
}
