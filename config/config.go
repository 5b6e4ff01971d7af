// Package config loads editor settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"tinker-realm/editor/persistence"
)

// Config holds every setting the editor binaries read.
type Config struct {
	DBType      string `env:"DB_TYPE" envDefault:"json"`
	DataDir     string `env:"DATA_DIR" envDefault:"."`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"host=localhost user=tinker password=tinker dbname=tinker sslmode=disable"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"tinker.db"`
	AssetDir    string `env:"ASSET_DIR" envDefault:"."`

	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	LogFile       string `env:"LOG_FILE" envDefault:"tinker.log"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`

	AreaWidth  int `env:"AREA_WIDTH" envDefault:"20"`
	AreaHeight int `env:"AREA_HEIGHT" envDefault:"15"`
}

// Load reads envFile when it exists, then parses the environment. Variables
// already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.DBType {
	case persistence.BackendJSON, persistence.BackendPostgres, persistence.BackendSQLite:
	default:
		return fmt.Errorf("DB_TYPE must be json, postgres or sqlite, got %q", c.DBType)
	}
	if c.AreaWidth <= 0 || c.AreaHeight <= 0 {
		return fmt.Errorf("AREA_WIDTH and AREA_HEIGHT must be positive, got %dx%d", c.AreaWidth, c.AreaHeight)
	}
	if c.LogMaxSizeMB <= 0 {
		return fmt.Errorf("LOG_MAX_SIZE_MB must be positive, got %d", c.LogMaxSizeMB)
	}
	return nil
}

// StorageOptions maps the config onto persistence.Open options.
func (c *Config) StorageOptions() persistence.Options {
	return persistence.Options{
		Backend:     c.DBType,
		DataDir:     c.DataDir,
		DatabaseURL: c.DatabaseURL,
		SQLitePath:  c.SQLitePath,
	}
}
