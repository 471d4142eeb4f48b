package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCmd applies pending migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every pending schema migration for the configured driver.
serve and create-admin do this on their own; migrate is for deploy pipelines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := migrate(cfg); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s).\n", cfg.DBDriver)
		return nil
	},
}
