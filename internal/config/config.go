// Package config loads application settings from defaults, an optional YAML
// file, an optional .env file and the process environment, in that order.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds every runtime setting of the server.
type Config struct {
	Addr           string `yaml:"addr" env:"EVENTREG_ADDR"`
	DBDriver       string `yaml:"db_driver" env:"EVENTREG_DB_DRIVER"`
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	SessionSecret  string `yaml:"session_secret" env:"EVENTREG_SESSION_SECRET"`
	SecureCookies  bool   `yaml:"secure_cookies" env:"EVENTREG_SECURE_COOKIES"`
	UploadDir      string `yaml:"upload_dir" env:"EVENTREG_UPLOAD_DIR"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"EVENTREG_MAX_UPLOAD_BYTES"`
	DefaultLocale  string `yaml:"default_locale" env:"EVENTREG_DEFAULT_LOCALE"`
	AdminUsername  string `yaml:"admin_username" env:"EVENTREG_ADMIN_USERNAME"`
	AdminPassword  string `yaml:"admin_password" env:"EVENTREG_ADMIN_PASSWORD"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Addr:           ":8080",
		DBDriver:       DriverSQLite,
		DatabaseURL:    "event_registration.db",
		UploadDir:      "static/uploads",
		MaxUploadBytes: 10 << 20,
		DefaultLocale:  "en",
		AdminUsername:  "admin",
		AdminPassword:  "admin123",
	}
}

// Load builds the configuration. path may be empty or point to a missing
// file; both mean "no YAML layer".
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	// .env is optional when the variables come from the environment (Docker, CI).
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: database_url is required")
		}
	case DriverPostgres:
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid database_url (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid database_url (%q): missing scheme or host", c.DatabaseURL)
		}
	default:
		return fmt.Errorf("config: unsupported db_driver %q", c.DBDriver)
	}

	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config: addr is required")
	}
	if strings.TrimSpace(c.UploadDir) == "" {
		return fmt.Errorf("config: upload_dir is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: max_upload_bytes must be positive")
	}
	if strings.TrimSpace(c.AdminUsername) == "" || c.AdminPassword == "" {
		return fmt.Errorf("config: admin_username and admin_password are required")
	}

	if c.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("config: generate session secret: %w", err)
		}
		c.SessionSecret = secret
		log.Println("config: session_secret not set, using a random one; sessions will not survive a restart")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
