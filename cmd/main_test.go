package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	content := fmt.Sprintf("db_driver: sqlite3\ndatabase_url: %s\nupload_dir: %s\nsession_secret: %s\n",
		filepath.Join(dir, "app.db"), filepath.Join(dir, "uploads"), strings.Repeat("s", 32))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	// The environment layer wins over YAML; pin it to the same values.
	t.Setenv("EVENTREG_DB_DRIVER", "sqlite3")
	t.Setenv("DATABASE_URL", filepath.Join(dir, "app.db"))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		adminUsername, adminPassword = "", ""
	})
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestMigrateCommand(t *testing.T) {
	cfg := writeConfig(t)
	assert.Contains(t, execute(t, "migrate", "--config", cfg), "Migrations applied (sqlite3)")
	// A second run finds nothing to do and still succeeds.
	assert.Contains(t, execute(t, "migrate", "--config", cfg), "Migrations applied")
}

func TestCreateAdminCommand(t *testing.T) {
	cfg := writeConfig(t)

	assert.Contains(t, execute(t, "create-admin", "--config", cfg), `Admin user "admin" created.`)
	assert.Contains(t, execute(t, "create-admin", "--config", cfg), `Admin user "admin" already exists.`)
	assert.Contains(t,
		execute(t, "create-admin", "--config", cfg, "--username", "root", "--password", "s3cret!"),
		`Admin user "root" created.`)
}
