package main

import (
	"fmt"

	"github.com/aussiebroadwan/taskmail/internal/notify/app"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		st, err := app.OpenStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ApplyMigrations(); err != nil {
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.DatabaseDriver)
		return nil
	},
}
