// Copyright (c) 2026 Bookshelf. All rights reserved.
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
  - DI-Friendly: Passed to core components (DB, Redis, token service) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Bookshelf API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"5000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// RunMigrations applies the embedded schema migrations at startup.
	RunMigrations bool `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Key-Value Cache (Redis). Catalogue caching is disabled when empty.
	RedisURL string `env:"REDIS_URL"`

	// JWTSecret signs and verifies bearer tokens. There is no fallback value.
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	// Per-IP token bucket of the public API
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
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

// IsOriginAllowed reports whether a browser origin may call the API.
func (c *Config) IsOriginAllowed(origin string) bool {
	return slices.Contains(c.AllowedOrigins, origin)
}

// # Ingestion

// IngestConfig holds the settings of the catalogue population command.
type IngestConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`

	// GoogleBooksAPIKey is optional; anonymous requests are rate limited harder.
	GoogleBooksAPIKey string `env:"GOOGLE_BOOKS_API_KEY"`

	// Terms are the search queries fetched one after another.
	Terms []string `env:"INGEST_TERMS" envSeparator:"," envDefault:"fiction,mystery,science fiction,biography,history,romance"`

	// RequestsPerSecond throttles outgoing catalogue API calls.
	RequestsPerSecond float64 `env:"INGEST_RPS" envDefault:"2"`
}

// LoadIngest parses environment variables into an [IngestConfig].
func LoadIngest() (*IngestConfig, error) {
	cfg := &IngestConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}
