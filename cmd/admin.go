package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// create-admin flags
	adminUsername string
	adminPassword string
)

// createAdminCmd bootstraps the admin account
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin account if it does not exist",
	Long: `Create an admin account. An existing account with the same username is
left untouched.

Examples:
  eventreg create-admin
  eventreg create-admin --username root --password s3cret!`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateAdmin(cmd)
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username (defaults to admin_username from config)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (defaults to admin_password from config)")
}

func runCreateAdmin(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if adminUsername != "" {
		cfg.AdminUsername = adminUsername
	}
	if adminPassword != "" {
		cfg.AdminPassword = adminPassword
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	created, err := newServices(store, cfg).accounts.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !created {
		fmt.Fprintf(out, "Admin user %q already exists.\n", cfg.AdminUsername)
		return nil
	}
	fmt.Fprintf(out, "Admin user %q created.\n", cfg.AdminUsername)
	return nil
}
