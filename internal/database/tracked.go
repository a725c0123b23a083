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

	"github.com/cinelogue/cinelogue/internal/metrics"
	"github.com/cinelogue/cinelogue/internal/models"
)

// UpsertTrackedEntry inserts or replaces the entry for (userID, movieID).
// The composite primary key enforces one entry per pair; created_at
// survives replacement, updated_at is re-stamped.
func (db *DB) UpsertTrackedEntry(ctx context.Context, entry *models.TrackedEntry) error {
	defer metrics.ObserveDBQuery("upsert_tracked", time.Now())

	var score any
	if entry.Score != nil {
		score = *entry.Score
	}
	now := time.Now().UTC()

	query := `INSERT INTO tracked_entries (user_id, movie_id, status, score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			status = EXCLUDED.status,
			score = EXCLUDED.score,
			updated_at = EXCLUDED.updated_at`

	_, err := db.conn.ExecContext(ctx, query,
		entry.UserID, entry.MovieID, string(entry.Status), score, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert tracked entry: %w", err)
	}
	entry.UpdatedAt = now
	return nil
}

// GetTrackedEntry returns the entry for (userID, movieID) or
// ErrEntryNotFound.
func (db *DB) GetTrackedEntry(ctx context.Context, userID, movieID int64) (*models.TrackedEntry, error) {
	defer metrics.ObserveDBQuery("get_tracked", time.Now())

	var (
		entry  models.TrackedEntry
		status sql.NullString
		score  sql.NullInt32
	)
	row := db.conn.QueryRowContext(ctx,
		`SELECT user_id, movie_id, status, score, created_at, updated_at
		FROM tracked_entries WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	err := row.Scan(&entry.UserID, &entry.MovieID, &status, &score, &entry.CreatedAt, &entry.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked entry: %w", err)
	}
	entry.Status = models.Status(status.String)
	if score.Valid {
		v := int(score.Int32)
		entry.Score = &v
	}
	return &entry, nil
}

// DeleteTrackedEntry removes the entry for (userID, movieID), returning
// ErrEntryNotFound when nothing was deleted.
func (db *DB) DeleteTrackedEntry(ctx context.Context, userID, movieID int64) error {
	defer metrics.ObserveDBQuery("delete_tracked", time.Now())

	res, err := db.conn.ExecContext(ctx,
		"DELETE FROM tracked_entries WHERE user_id = ? AND movie_id = ?", userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to delete tracked entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ListTrackedMovies returns the user's tracked entries joined with their
// catalog rows, most recently updated first.
func (db *DB) ListTrackedMovies(ctx context.Context, userID int64) ([]models.TrackedMovie, error) {
	defer metrics.ObserveDBQuery("list_tracked", time.Now())

	query := `SELECT m.id, m.title, m.overview, m.release_date, m.genres, m.popularity, m.poster_url,
			t.status, t.score
		FROM tracked_entries t
		JOIN movies m ON m.id = t.movie_id
		WHERE t.user_id = ?
		ORDER BY t.updated_at DESC, m.id`

	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked movies: %w", err)
	}
	defer rows.Close()

	var tracked []models.TrackedMovie
	for rows.Next() {
		var (
			tm         models.TrackedMovie
			overview   sql.NullString
			releaseAt  sql.NullTime
			genresRaw  sql.NullString
			popularity sql.NullFloat64
			posterURL  sql.NullString
			status     sql.NullString
			score      sql.NullInt32
		)
		err := rows.Scan(&tm.ID, &tm.Title, &overview, &releaseAt, &genresRaw, &popularity, &posterURL,
			&status, &score)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tracked movie: %w", err)
		}
		tm.Overview = overview.String
		if releaseAt.Valid {
			t := releaseAt.Time
			tm.ReleaseDate = &t
		}
		tm.Genres = models.ParseGenres(genresRaw.String)
		if popularity.Valid {
			v := popularity.Float64
			tm.Popularity = &v
		}
		if posterURL.Valid && posterURL.String != "" {
			s := posterURL.String
			tm.PosterURL = &s
		}
		tm.Status = models.Status(status.String)
		if score.Valid {
			v := int(score.Int32)
			tm.Score = &v
		}
		tracked = append(tracked, tm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracked movies: %w", err)
	}
	return tracked, nil
}

// TrackedMovieIDs returns just the movie identifiers in the user's list,
// for exclusion sets and the genre fallback.
func (db *DB) TrackedMovieIDs(ctx context.Context, userID int64) ([]int64, error) {
	defer metrics.ObserveDBQuery("tracked_ids", time.Now())

	rows, err := db.conn.QueryContext(ctx,
		"SELECT movie_id FROM tracked_entries WHERE user_id = ? ORDER BY updated_at DESC, movie_id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracked ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tracked id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracked ids: %w", err)
	}
	return ids, nil
}

// CountTrackedEntries returns the size of the user's list. The
// recommendation core uses this for the collaborative-filtering
// eligibility gate.
func (db *DB) CountTrackedEntries(ctx context.Context, userID int64) (int, error) {
	defer metrics.ObserveDBQuery("count_tracked", time.Now())

	var count int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tracked_entries WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tracked entries: %w", err)
	}
	return count, nil
}

// UserAvgScore returns the average score across the user's scored
// entries, or nil when no entry carries a score.
func (db *DB) UserAvgScore(ctx context.Context, userID int64) (*float64, error) {
	defer metrics.ObserveDBQuery("user_avg_score", time.Now())

	var avg sql.NullFloat64
	err := db.conn.QueryRowContext(ctx,
		"SELECT AVG(score) FROM tracked_entries WHERE user_id = ? AND score IS NOT NULL", userID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("failed to average scores: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}
