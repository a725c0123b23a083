// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables.
//
// movies holds the catalog; identifiers come from the upstream movie
// database and are never generated locally. genres is a serialized JSON
// array of {name} objects matching the ingestion format.
//
// recommendation_cache has a composite primary key on (subject_id, kind);
// the global "popular" kind uses the reserved subject id -1. The sentinel
// exists only at this layer; code above the storage layer uses a tagged
// cache key.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			id BIGINT PRIMARY KEY,
			title TEXT NOT NULL,
			overview TEXT,
			release_date DATE,
			genres TEXT NOT NULL DEFAULT '[]',
			popularity DOUBLE,
			poster_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tracked_entries (
			user_id BIGINT NOT NULL,
			movie_id BIGINT NOT NULL,
			status TEXT,
			score INTEGER,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, movie_id)
		)`,
		`CREATE TABLE IF NOT EXISTS recommendation_cache (
			subject_id BIGINT NOT NULL,
			kind TEXT NOT NULL,
			movies_json TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (subject_id, kind)
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// createIndexes creates secondary indexes for the hot query paths:
// popularity-ordered catalog scans and per-user tracked lookups.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE INDEX IF NOT EXISTS idx_movies_popularity ON movies (popularity DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_tracked_user ON tracked_entries (user_id)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
