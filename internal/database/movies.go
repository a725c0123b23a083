// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cinelogue/cinelogue/internal/metrics"
	"github.com/cinelogue/cinelogue/internal/models"
)

// MovieFilter narrows ListMovies and CountMovies. Zero values mean
// "no constraint".
type MovieFilter struct {
	// Search matches titles case-insensitively by substring.
	Search string
	// Genre matches movies whose serialized genre list contains the name.
	Genre string
	// Sort is "popular" (default) or "newest".
	Sort string
	// Limit and Offset page the result; Limit <= 0 returns nothing.
	Limit  int
	Offset int
}

const movieColumns = "id, title, overview, release_date, genres, popularity, poster_url"

// scanMovie reads one catalog row. Nullable columns map to pointer fields;
// genres is decoded from its serialized JSON form.
func scanMovie(row interface{ Scan(...any) error }) (models.Movie, error) {
	var (
		m          models.Movie
		overview   sql.NullString
		releaseAt  sql.NullTime
		genresRaw  sql.NullString
		popularity sql.NullFloat64
		posterURL  sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Title, &overview, &releaseAt, &genresRaw, &popularity, &posterURL); err != nil {
		return models.Movie{}, err
	}
	m.Overview = overview.String
	if releaseAt.Valid {
		t := releaseAt.Time
		m.ReleaseDate = &t
	}
	m.Genres = models.ParseGenres(genresRaw.String)
	if popularity.Valid {
		v := popularity.Float64
		m.Popularity = &v
	}
	if posterURL.Valid && posterURL.String != "" {
		s := posterURL.String
		m.PosterURL = &s
	}
	return m, nil
}

func collectMovies(rows *sql.Rows) ([]models.Movie, error) {
	defer rows.Close()
	var movies []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}
	return movies, nil
}

// placeholders returns a "?, ?, ..." fragment for n bind parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// UpsertMovie inserts or replaces one catalog row, used by ingestion and
// by tests seeding the catalog.
func (db *DB) UpsertMovie(ctx context.Context, m *models.Movie) error {
	defer metrics.ObserveDBQuery("upsert_movie", time.Now())

	query := `INSERT INTO movies (id, title, overview, release_date, genres, popularity, poster_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			overview = EXCLUDED.overview,
			release_date = EXCLUDED.release_date,
			genres = EXCLUDED.genres,
			popularity = EXCLUDED.popularity,
			poster_url = EXCLUDED.poster_url`

	var releaseAt any
	if m.ReleaseDate != nil {
		releaseAt = *m.ReleaseDate
	}
	var popularity any
	if m.Popularity != nil {
		popularity = *m.Popularity
	}
	var posterURL any
	if m.PosterURL != nil {
		posterURL = *m.PosterURL
	}

	_, err := db.conn.ExecContext(ctx, query,
		m.ID, m.Title, m.Overview, releaseAt, m.Genres.Serialize(), popularity, posterURL)
	if err != nil {
		return fmt.Errorf("failed to upsert movie %d: %w", m.ID, err)
	}
	return nil
}

// GetMovieByID returns one movie or ErrMovieNotFound.
func (db *DB) GetMovieByID(ctx context.Context, id int64) (*models.Movie, error) {
	defer metrics.ObserveDBQuery("get_movie", time.Now())

	row := db.conn.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE id = ?", id)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return &m, nil
}

// GetMoviesByIDs returns the catalog rows for the given identifier set in
// one batched read. Unknown identifiers are silently absent from the
// result, and the result order is storage order, not input order; callers
// needing rank order re-sort against their own input.
func (db *DB) GetMoviesByIDs(ctx context.Context, ids []int64) ([]models.Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	defer metrics.ObserveDBQuery("get_movies_by_ids", time.Now())

	query := fmt.Sprintf("SELECT %s FROM movies WHERE id IN (%s)",
		movieColumns, placeholders(len(ids)))
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-read movies: %w", err)
	}
	return collectMovies(rows)
}

// ListMovies pages through the catalog applying the filter.
func (db *DB) ListMovies(ctx context.Context, filter MovieFilter) ([]models.Movie, error) {
	defer metrics.ObserveDBQuery("list_movies", time.Now())

	var (
		conds []string
		args  []any
	)
	if filter.Search != "" {
		conds = append(conds, "title ILIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Genre != "" {
		conds = append(conds, "genres LIKE ?")
		args = append(args, `%"name":"`+filter.Genre+`"%`)
	}

	query := "SELECT " + movieColumns + " FROM movies"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	switch filter.Sort {
	case "newest":
		query += " ORDER BY release_date DESC NULLS LAST, id"
	default:
		query += " ORDER BY popularity DESC NULLS LAST, id"
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return collectMovies(rows)
}

// CountMovies returns the catalog size under the filter's search and genre
// constraints (paging and sort fields are ignored).
func (db *DB) CountMovies(ctx context.Context, filter MovieFilter) (int64, error) {
	defer metrics.ObserveDBQuery("count_movies", time.Now())

	var (
		conds []string
		args  []any
	)
	if filter.Search != "" {
		conds = append(conds, "title ILIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Genre != "" {
		conds = append(conds, "genres LIKE ?")
		args = append(args, `%"name":"`+filter.Genre+`"%`)
	}

	query := "SELECT COUNT(*) FROM movies"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	var count int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// MoviesByGenres returns displayable movies matching any of the genre
// names, ordered by descending popularity, excluding the given ids.
// Popularity-less and poster-less rows are filtered out, matching the
// genre-fallback contract.
func (db *DB) MoviesByGenres(ctx context.Context, genres []string, exclude []int64, limit int) ([]models.Movie, error) {
	if len(genres) == 0 || limit <= 0 {
		return nil, nil
	}
	defer metrics.ObserveDBQuery("movies_by_genres", time.Now())

	var (
		genreConds []string
		args       []any
	)
	for _, g := range genres {
		genreConds = append(genreConds, "genres LIKE ?")
		args = append(args, `%"name":"`+g+`"%`)
	}

	query := "SELECT " + movieColumns + ` FROM movies
		WHERE (` + strings.Join(genreConds, " OR ") + `)
		AND popularity IS NOT NULL
		AND poster_url IS NOT NULL`
	if len(exclude) > 0 {
		query += fmt.Sprintf(" AND id NOT IN (%s)", placeholders(len(exclude)))
		for _, id := range exclude {
			args = append(args, id)
		}
	}
	query += " ORDER BY popularity DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies by genres: %w", err)
	}
	return collectMovies(rows)
}

// TopByPopularity returns the highest-popularity displayable movies,
// excluding the given ids. Used for fallback padding and the random pick.
func (db *DB) TopByPopularity(ctx context.Context, exclude []int64, limit int) ([]models.Movie, error) {
	if limit <= 0 {
		return nil, nil
	}
	defer metrics.ObserveDBQuery("top_by_popularity", time.Now())

	query := "SELECT " + movieColumns + ` FROM movies
		WHERE popularity IS NOT NULL
		AND poster_url IS NOT NULL`
	var args []any
	if len(exclude) > 0 {
		query += fmt.Sprintf(" AND id NOT IN (%s)", placeholders(len(exclude)))
		for _, id := range exclude {
			args = append(args, id)
		}
	}
	query += " ORDER BY popularity DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top movies: %w", err)
	}
	return collectMovies(rows)
}

// RandomFromTop returns one random movie drawn from the n most popular
// displayable titles, or ErrMovieNotFound on an empty catalog.
func (db *DB) RandomFromTop(ctx context.Context, n int) (*models.Movie, error) {
	defer metrics.ObserveDBQuery("random_from_top", time.Now())

	query := "SELECT " + movieColumns + ` FROM (
		SELECT ` + movieColumns + ` FROM movies
		WHERE popularity IS NOT NULL AND poster_url IS NOT NULL
		ORDER BY popularity DESC LIMIT ?
	) ORDER BY random() LIMIT 1`

	row := db.conn.QueryRowContext(ctx, query, n)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick random movie: %w", err)
	}
	return &m, nil
}

// Stats holds catalog-wide aggregates for the stats endpoint.
type Stats struct {
	TotalMovies   int64
	TotalUsers    int64
	TotalTracked  int64
	AvgPopularity *float64
}

// GetStats computes catalog aggregates in one round trip per table.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	defer metrics.ObserveDBQuery("get_stats", time.Now())

	var (
		stats  Stats
		avgPop sql.NullFloat64
	)
	row := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*), AVG(popularity) FROM movies")
	if err := row.Scan(&stats.TotalMovies, &avgPop); err != nil {
		return nil, fmt.Errorf("failed to read movie stats: %w", err)
	}
	if avgPop.Valid {
		v := avgPop.Float64
		stats.AvgPopularity = &v
	}

	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&stats.TotalUsers); err != nil {
		return nil, fmt.Errorf("failed to read user stats: %w", err)
	}
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM tracked_entries").Scan(&stats.TotalTracked); err != nil {
		return nil, fmt.Errorf("failed to read tracked stats: %w", err)
	}
	return &stats, nil
}
