// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package recommend

import (
	"context"
	"fmt"

	"github.com/cinelogue/cinelogue/internal/models"
)

// maxFallbackGenres caps how many distinct genres seed the fallback
// query.
const maxFallbackGenres = 6

// collectGenres returns the distinct genre names across the tracked
// movies in order of first appearance, capped at maxFallbackGenres.
func collectGenres(tracked []models.TrackedMovie) []string {
	var (
		genres []string
		seen   = make(map[string]struct{})
	)
	for _, tm := range tracked {
		for _, name := range tm.Genres.Names() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			genres = append(genres, name)
			if len(genres) == maxFallbackGenres {
				return genres
			}
		}
	}
	return genres
}

// genreFallback recommends from genre overlap with the user's tracked
// list. Genre matches come first in descending popularity; if they fall
// short of limit, the globally most popular titles pad the remainder.
// Tracked and already-selected movies never appear, and every result
// carries a popularity score and a poster. Recomputed on every call:
// this is a bounded local query, not an expensive external computation,
// so it is never cached.
func genreFallback(ctx context.Context, store Store, userID int64, limit int) (*Result, error) {
	tracked, err := store.ListTrackedMovies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracked list: %w", err)
	}

	genres := collectGenres(tracked)
	exclude := make([]int64, 0, len(tracked))
	for _, tm := range tracked {
		exclude = append(exclude, tm.ID)
	}

	var movies []models.Movie
	if len(genres) > 0 {
		movies, err = store.MoviesByGenres(ctx, genres, exclude, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to query genre matches: %w", err)
		}
	}

	if len(movies) < limit {
		padExclude := exclude
		for _, m := range movies {
			padExclude = append(padExclude, m.ID)
		}
		padding, err := store.TopByPopularity(ctx, padExclude, limit-len(movies))
		if err != nil {
			return nil, fmt.Errorf("failed to query fallback padding: %w", err)
		}
		movies = append(movies, padding...)
	}

	return &Result{
		Movies:        movies,
		Personalized:  false,
		BasedOnGenres: genres,
	}, nil
}
