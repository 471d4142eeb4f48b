package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Shivanand-hulikatti/eventreg/internal/database/migrations"
)

// MigrateSQLite applies all pending migrations to the SQLite file at path.
func MigrateSQLite(path string) error {
	return runMigrations("sqlite", "sqlite3://"+path)
}

// MigratePostgres applies all pending migrations to the database at url.
func MigratePostgres(url string) error {
	return runMigrations("postgres", url)
}

func runMigrations(dir, databaseURL string) error {
	src, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Printf("migrations applied (%s, version=%d, dirty=%v)", dir, version, dirty)
	return nil
}
