// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package recommend

import (
	"context"
	"fmt"

	"github.com/cinelogue/cinelogue/internal/logging"
	"github.com/cinelogue/cinelogue/internal/models"
)

// Similar returns movies ranked by content similarity to the given
// movie. The scorer's overview mode does the ranking; the source movie
// itself is excluded. Unlike the popular and personalized kinds this
// path is not cached: similarity queries are spread across thousands of
// titles, so a per-title cache would rarely be warm.
//
// When the scorer fails, the path degrades to the movie's first genre:
// the most popular titles sharing it, so the detail page always has a
// rail to show.
func (c *Coordinator) Similar(ctx context.Context, movieID int64, limit int) (*Result, error) {
	movie, err := c.store.GetMovieByID(ctx, movieID)
	if err != nil {
		return nil, err
	}

	ids, err := c.scorer.Similar(ctx, movie.Title, limit+1)
	if err == nil {
		exclude := map[int64]struct{}{movie.ID: {}}
		movies, resolveErr := resolveRanked(ctx, c.store, ids, exclude, true)
		if resolveErr != nil {
			return nil, resolveErr
		}
		return &Result{Movies: truncate(movies, limit)}, nil
	}

	logging.Warn().Int64("movie_id", movieID).Err(err).Msg("similarity scorer failed, falling back to genre")

	names := movie.Genres.Names()
	if len(names) == 0 {
		return &Result{Movies: []models.Movie{}}, nil
	}
	movies, err := c.store.MoviesByGenres(ctx, names[:1], []int64{movie.ID}, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query genre rail: %w", err)
	}
	return &Result{Movies: movies, BasedOnGenres: names[:1]}, nil
}
