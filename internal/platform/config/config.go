// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, price feed) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/tradepost/pkg/money"
)

// # Configuration Schema

// Config holds all runtime configuration for the Tradepost API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Session policy
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// SignupBalance is credited to every newly registered account.
	SignupBalance money.Amount `env:"SIGNUP_BALANCE" envDefault:"100.00"`

	// Third-party pricing feed
	PriceFeedURL         string        `env:"PRICE_FEED_URL"          envDefault:"https://api.skinport.com/v1/items"`
	PriceFeedAppID       string        `env:"PRICE_FEED_APP_ID"       envDefault:"730"`
	PriceFeedCurrency    string        `env:"PRICE_FEED_CURRENCY"     envDefault:"EUR"`
	PriceFeedMinInterval time.Duration `env:"PRICE_FEED_MIN_INTERVAL" envDefault:"40s"`
	PriceCacheTTL        time.Duration `env:"PRICE_CACHE_TTL"         envDefault:"1h"`

	// Cross-Origin Resource Sharing
	CORSOriginSuffix string `env:"CORS_ORIGIN_SUFFIX" envDefault:"tradepost.app"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowsOrigin reports whether a browser origin may call the API.
//
// Development accepts every origin; otherwise the origin must end with CORSOriginSuffix.
func (c *Config) AllowsOrigin(origin string) bool {
	if c.IsDevelopment() {
		return true
	}
	return c.CORSOriginSuffix != "" && strings.HasSuffix(origin, c.CORSOriginSuffix)
}

// validate rejects values that parse but make no sense at runtime.
func (c *Config) validate() error {
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.PriceCacheTTL <= 0 {
		return fmt.Errorf("config: PRICE_CACHE_TTL must be positive, got %s", c.PriceCacheTTL)
	}
	if c.SignupBalance.IsNegative() {
		return fmt.Errorf("config: SIGNUP_BALANCE must not be negative, got %s", c.SignupBalance)
	}
	return nil
}
