// cmd/main.go is the application entry point.
// It wires together all layers behind the eventreg command line.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/eventreg/internal/config"
	"github.com/Shivanand-hulikatti/eventreg/internal/database"
	"github.com/Shivanand-hulikatti/eventreg/internal/imagestore"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository/postgres"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository/sqlite"
	"github.com/Shivanand-hulikatti/eventreg/internal/service"
)

// Global flags
var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "eventreg",
	Short: "Event registration web application",
	Long: `eventreg serves a small multi-user event registration site.

Users sign up, browse events and register to attend. Organizers manage
their own events and admins manage every event and account.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.AddCommand(serveCmd, createAdminCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// openStore migrates and opens the configured backend.
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		log.Println("✓ Connected to PostgreSQL")
		return store, nil
	default:
		store, err := sqlite.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		log.Printf("✓ Opened SQLite database %s", cfg.DatabaseURL)
		return store, nil
	}
}

// migrate applies pending schema migrations without opening the app.
func migrate(cfg *config.Config) error {
	if cfg.DBDriver == config.DriverPostgres {
		return database.MigratePostgres(cfg.DatabaseURL)
	}
	return database.MigrateSQLite(cfg.DatabaseURL)
}

// services bundles the service layer built over one store.
type services struct {
	accounts      *service.AccountService
	events        *service.EventService
	registrations *service.RegistrationService
	images        *imagestore.Store
}

func newServices(store *repository.Store, cfg *config.Config) services {
	images := imagestore.New(cfg.UploadDir)
	return services{
		accounts:      service.NewAccountService(store.Users, store.Events, images),
		events:        service.NewEventService(store.Events, store.Users, images),
		registrations: service.NewRegistrationService(store.Registrations, store.Events),
		images:        images,
	}
}
