// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

// Package config loads Cinelogue configuration via koanf v2 with layered
// sources: struct defaults, then an optional YAML config file, then
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"

	"github.com/cinelogue/cinelogue/internal/validation"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Scorer    ScorerConfig    `koanf:"scorer"`
	Recommend RecommendConfig `koanf:"recommend"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path, or ":memory:" for an in-memory
	// database (used by tests).
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	// Threads caps DuckDB worker threads; 0 means runtime.NumCPU().
	Threads int `koanf:"threads" validate:"gte=0"`
}

// ScorerConfig holds settings for the external ranking subprocess.
type ScorerConfig struct {
	// Python is the interpreter used to run the scorer script.
	Python string `koanf:"python" validate:"required"`
	// Script is the scorer CLI entry point.
	Script string `koanf:"script" validate:"required"`
	// DataDir is passed through as --data-dir.
	DataDir string `koanf:"data_dir" validate:"required"`
	// Timeout bounds one invocation's wall-clock time.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	// BreakerFailures is the consecutive-failure count that opens the
	// circuit breaker.
	BreakerFailures int `koanf:"breaker_failures" validate:"gte=1"`
	// BreakerCooldown is how long the breaker stays open before probing.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"gt=0"`
}

// RecommendConfig holds recommendation core settings.
type RecommendConfig struct {
	// StaleAfter is the cache freshness window; entries at least this old
	// are refreshed in the background.
	StaleAfter time.Duration `koanf:"stale_after" validate:"gt=0"`
	// MinHistory is the tracked-entry count required for the
	// collaborative-filtering path; below it the genre fallback is used.
	MinHistory int `koanf:"min_history" validate:"gte=1"`
	// PopularTopN is how many ranked ids the scorer is asked for in
	// popular mode; PopularKeep is how many of those are resolved.
	PopularTopN int `koanf:"popular_top_n" validate:"gte=1"`
	PopularKeep int `koanf:"popular_keep" validate:"gte=1"`
	// RefreshPerMinute caps background refresh launches; excess stale hits
	// skip the refresh and leave it to a later request.
	RefreshPerMinute int `koanf:"refresh_per_minute" validate:"gte=1"`
	// ImageBaseURL prefixes partial poster paths.
	ImageBaseURL string `koanf:"image_base_url" validate:"required,url"`
}

// APIConfig holds paging defaults for browse endpoints.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size" validate:"gte=1"`
	MaxPageSize     int `koanf:"max_page_size" validate:"gte=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Database: DatabaseConfig{
			Path:      "/data/cinelogue.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Scorer: ScorerConfig{
			Python:          "python3",
			Script:          "ml-service/api_cli.py",
			DataDir:         "ml-service/data",
			Timeout:         30 * time.Second,
			BreakerFailures: 5,
			BreakerCooldown: time.Minute,
		},
		Recommend: RecommendConfig{
			StaleAfter:       24 * time.Hour,
			MinHistory:       15,
			PopularTopN:      100,
			PopularKeep:      50,
			RefreshPerMinute: 10,
			ImageBaseURL:     "https://image.tmdb.org/t/p/w500",
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return fmt.Errorf("invalid configuration: %s", verr.Error())
	}
	if c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("invalid configuration: default_page_size (%d) exceeds max_page_size (%d)",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	if c.Recommend.PopularKeep > c.Recommend.PopularTopN {
		return fmt.Errorf("invalid configuration: popular_keep (%d) exceeds popular_top_n (%d)",
			c.Recommend.PopularKeep, c.Recommend.PopularTopN)
	}
	return nil
}
