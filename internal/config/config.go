// internal/config/config.go

// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the libris binary needs at startup.
type Config struct {
	Addr            string `env:"LIBRIS_ADDR" envDefault:":8080"`
	LoanDays        int    `env:"LIBRIS_LOAN_DAYS" envDefault:"14"`
	FinePencePerDay int    `env:"LIBRIS_FINE_PENCE_PER_DAY" envDefault:"50"`
	SeedDataDir     string `env:"LIBRIS_SEED_DATA_DIR"`
	OTelEndpoint    string `env:"LIBRIS_OTEL_ENDPOINT"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LoanDays <= 0 {
		return cfg, fmt.Errorf("LIBRIS_LOAN_DAYS must be positive, got %d", cfg.LoanDays)
	}
	if cfg.FinePencePerDay < 0 {
		return cfg, fmt.Errorf("LIBRIS_FINE_PENCE_PER_DAY cannot be negative, got %d", cfg.FinePencePerDay)
	}
	return cfg, nil
}
