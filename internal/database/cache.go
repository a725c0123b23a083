// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/cinelogue/cinelogue/internal/metrics"
	"github.com/cinelogue/cinelogue/internal/models"
)

// CacheEntry is one stored recommendation list: a denormalized snapshot
// of catalog rows in scorer rank order, stamped with its computation
// time. Snapshots intentionally decouple from the live catalog; a
// snapshot may lag catalog edits until the next refresh replaces it.
type CacheEntry struct {
	SubjectID int64
	Kind      string
	Movies    []models.Movie
	UpdatedAt time.Time
}

// GetCacheEntry returns the entry for (subjectID, kind), or nil when no
// entry exists. Absence is not an error: the caller's state machine
// treats it as the NoEntry state.
func (db *DB) GetCacheEntry(ctx context.Context, subjectID int64, kind string) (*CacheEntry, error) {
	defer metrics.ObserveDBQuery("get_cache_entry", time.Now())

	var (
		entry      CacheEntry
		moviesJSON string
	)
	row := db.conn.QueryRowContext(ctx,
		`SELECT subject_id, kind, movies_json, updated_at
		FROM recommendation_cache WHERE subject_id = ? AND kind = ?`, subjectID, kind)
	err := row.Scan(&entry.SubjectID, &entry.Kind, &moviesJSON, &entry.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if err := json.Unmarshal([]byte(moviesJSON), &entry.Movies); err != nil {
		return nil, fmt.Errorf("failed to decode cached snapshot: %w", err)
	}
	return &entry, nil
}

// UpsertCacheEntry replaces the entry for (subjectID, kind) wholesale and
// stamps it with the given time. The composite primary key guarantees one
// row per key; replacement is a single statement, so a concurrent reader
// sees either the old snapshot or the new one, never a mix. Last writer
// wins under concurrent refreshes of the same key.
func (db *DB) UpsertCacheEntry(ctx context.Context, subjectID int64, kind string, movies []models.Movie, now time.Time) error {
	defer metrics.ObserveDBQuery("upsert_cache_entry", time.Now())

	snapshot, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `INSERT INTO recommendation_cache (subject_id, kind, movies_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (subject_id, kind) DO UPDATE SET
			movies_json = EXCLUDED.movies_json,
			updated_at = EXCLUDED.updated_at`

	_, err = db.conn.ExecContext(ctx, query, subjectID, kind, string(snapshot), now.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}
