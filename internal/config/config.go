package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DBConfig holds the connection settings for one Postgres database.
type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     int
	Database string
}

// DSN returns a postgres:// connection URL.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.Username),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Database,
	)
}

// Config is the full configuration for the migration tooling.
type Config struct {
	Database DBConfig
	// MigrationsDir is where scaffolded migration files are written.
	MigrationsDir string
	// StatesDir overrides the embedded state files when set.
	StatesDir string
}

// Load reads .env (when present) and the process environment and returns
// the configuration for the primary database. Missing database settings are
// an error: we fail before attempting any connection.
func Load() (*Config, error) {
	return load("DB")
}

// LoadTest is Load for the TEST_DB_* variables used by DB-backed tests.
func LoadTest() (*Config, error) {
	return load("TEST_DB")
}

func load(prefix string) (*Config, error) {
	// A missing .env is fine; the environment may carry everything.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(prefix+"_PORT", 5432)
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	cfg := &Config{
		Database: DBConfig{
			Username: v.GetString(prefix + "_USERNAME"),
			Password: v.GetString(prefix + "_PASSWORD"),
			Host:     v.GetString(prefix + "_HOST"),
			Port:     v.GetInt(prefix + "_PORT"),
			Database: v.GetString(prefix + "_DATABASE"),
		},
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		StatesDir:     v.GetString("STATES_DIR"),
	}

	if err := cfg.validate(prefix); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate(prefix string) error {
	var missing []string
	if c.Database.Username == "" {
		missing = append(missing, prefix+"_USERNAME")
	}
	if c.Database.Host == "" {
		missing = append(missing, prefix+"_HOST")
	}
	if c.Database.Database == "" {
		missing = append(missing, prefix+"_DATABASE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid %s_PORT: %d", prefix, c.Database.Port)
	}
	return nil
}
