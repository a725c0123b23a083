// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Recommend.StaleAfter != 24*time.Hour {
		t.Errorf("StaleAfter = %v, want 24h", cfg.Recommend.StaleAfter)
	}
	if cfg.Recommend.MinHistory != 15 {
		t.Errorf("MinHistory = %d, want 15", cfg.Recommend.MinHistory)
	}
	if cfg.Scorer.Timeout != 30*time.Second {
		t.Errorf("Scorer.Timeout = %v, want 30s", cfg.Scorer.Timeout)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"zero stale window", func(c *Config) { c.Recommend.StaleAfter = 0 }},
		{"zero min history", func(c *Config) { c.Recommend.MinHistory = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"default page exceeds max", func(c *Config) { c.API.DefaultPageSize = 500 }},
		{"keep exceeds top n", func(c *Config) { c.Recommend.PopularKeep = 500 }},
		{"bad image base url", func(c *Config) { c.Recommend.ImageBaseURL = "not a url" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env      string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"SCORER_TIMEOUT", "scorer.timeout"},
		{"RECOMMEND_STALE_AFTER", "recommend.stale_after"},
		{"LOG_LEVEL", "logging.level"},
		{"HOME", ""},
		{"RANDOM_UNRELATED_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.expected)
			}
		})
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9090\nrecommend:\n  min_history: 20\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090 from config file", cfg.Server.Port)
	}
	if cfg.Recommend.MinHistory != 20 {
		t.Errorf("MinHistory = %d, want 20 from config file", cfg.Recommend.MinHistory)
	}
	// Untouched values keep defaults.
	if cfg.Recommend.StaleAfter != 24*time.Hour {
		t.Errorf("StaleAfter = %v, want default 24h", cfg.Recommend.StaleAfter)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want env override 7070", cfg.Server.Port)
	}
}
