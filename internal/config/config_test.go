package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray .env leaks into the test.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "event_registration.db", cfg.DatabaseURL)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Len(t, cfg.SessionSecret, 64, "random secret is generated")
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\nupload_dir: /srv/uploads\nsession_secret: from-yaml\n"), 0o600))
	t.Setenv("EVENTREG_UPLOAD_DIR", "/data/uploads")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/data/uploads", cfg.UploadDir, "environment wins over yaml")
	assert.Equal(t, "from-yaml", cfg.SessionSecret)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EVENTREG_DEFAULT_LOCALE=id\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("EVENTREG_DEFAULT_LOCALE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.DefaultLocale)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	dir := chdir(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.NoError(t, err)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"EVENTREG_DB_DRIVER": "mysql"}},
		{"postgres without host", map[string]string{"EVENTREG_DB_DRIVER": "postgres", "DATABASE_URL": "eventreg"}},
		{"bad upload limit", map[string]string{"EVENTREG_MAX_UPLOAD_BYTES": "0"}},
		{"bad number", map[string]string{"EVENTREG_MAX_UPLOAD_BYTES": "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadPostgresURL(t *testing.T) {
	chdir(t)
	t.Setenv("EVENTREG_DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/eventreg?sslmode=disable")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
}
