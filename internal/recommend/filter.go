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

// resolveRanked resolves externally ranked identifiers against the live
// catalog. It batch-reads all ids, then walks the input order: the
// batched read returns rows in arbitrary storage order, so the result is
// re-sorted back into scorer preference order. Identifiers that resolve
// to nothing are dropped, as are excluded ids and, when requireArtwork
// is set, movies without a poster.
func resolveRanked(ctx context.Context, catalog Catalog, orderedIDs []int64, excluded map[int64]struct{}, requireArtwork bool) ([]models.Movie, error) {
	if len(orderedIDs) == 0 {
		return nil, nil
	}

	found, err := catalog.GetMoviesByIDs(ctx, orderedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ranked ids: %w", err)
	}

	byID := make(map[int64]models.Movie, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}

	resolved := make([]models.Movie, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		m, ok := byID[id]
		if !ok {
			continue
		}
		if _, skip := excluded[id]; skip {
			continue
		}
		if requireArtwork && !m.HasPoster() {
			continue
		}
		resolved = append(resolved, m)
	}
	return resolved, nil
}

// idSet builds a membership set from a slice of identifiers.
func idSet(ids []int64) map[int64]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
