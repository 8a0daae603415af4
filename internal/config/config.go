package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const (
	defaultDSN     = "host=localhost user=postgres password=postgres dbname=bakery port=5432 sslmode=disable"
	defaultOrigins = "http://localhost:5173"
)

type Config struct {
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"host=localhost user=postgres password=postgres dbname=bakery port=5432 sslmode=disable"`
	CORSOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
}

// Load reads configuration from the environment. Warnings lists defaults that
// should not survive into production; the caller decides how to log them.
func Load() (*Config, []string, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	var warnings []string
	if cfg.DatabaseDSN == defaultDSN {
		warnings = append(warnings, "DATABASE_DSN is using the development default")
	}
	if cfg.CORSOrigins == defaultOrigins {
		warnings = append(warnings, "CORS_ALLOWED_ORIGINS is using the development default")
	}
	return &cfg, warnings, nil
}
