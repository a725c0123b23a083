// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cinelogue/cinelogue/internal/database"
	"github.com/cinelogue/cinelogue/internal/models"
)

// fakeStore is an in-memory Store. Batched reads deliberately return
// rows in ascending-id order so order-preservation tests catch a filter
// that trusts storage order.
type fakeStore struct {
	mu      sync.Mutex
	movies  map[int64]models.Movie
	tracked map[int64][]models.TrackedMovie
	cache   map[string]database.CacheEntry
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		movies:  make(map[int64]models.Movie),
		tracked: make(map[int64][]models.TrackedMovie),
		cache:   make(map[string]database.CacheEntry),
	}
}

func cacheKeyString(subjectID int64, kind string) string {
	return fmt.Sprintf("%d/%s", subjectID, kind)
}

func (f *fakeStore) addMovie(m models.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movies[m.ID] = m
}

func (f *fakeStore) addTracked(userID int64, tm models.TrackedMovie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracked[userID] = append(f.tracked[userID], tm)
}

func (f *fakeStore) seedCache(subjectID int64, kind string, movies []models.Movie, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache[cacheKeyString(subjectID, kind)] = database.CacheEntry{
		SubjectID: subjectID,
		Kind:      kind,
		Movies:    movies,
		UpdatedAt: at,
	}
}

func (f *fakeStore) GetCacheEntry(ctx context.Context, subjectID int64, kind string) (*database.CacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.cache[cacheKeyString(subjectID, kind)]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (f *fakeStore) UpsertCacheEntry(ctx context.Context, subjectID int64, kind string, movies []models.Movie, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.cache[cacheKeyString(subjectID, kind)] = database.CacheEntry{
		SubjectID: subjectID,
		Kind:      kind,
		Movies:    movies,
		UpdatedAt: now,
	}
	return nil
}

func (f *fakeStore) GetMoviesByIDs(ctx context.Context, ids []int64) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Movie
	for _, id := range ids {
		if m, ok := f.movies[id]; ok {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetMovieByID(ctx context.Context, id int64) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	if !ok {
		return nil, database.ErrMovieNotFound
	}
	return &m, nil
}

func (f *fakeStore) displayable(m models.Movie) bool {
	return m.Popularity != nil && m.HasPoster()
}

func (f *fakeStore) byPopularityDesc(keep func(models.Movie) bool, limit int) []models.Movie {
	var out []models.Movie
	for _, m := range f.movies {
		if f.displayable(m) && keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].Popularity != *out[j].Popularity {
			return *out[i].Popularity > *out[j].Popularity
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeStore) MoviesByGenres(ctx context.Context, genres []string, exclude []int64, limit int) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	excluded := idSet(exclude)
	return f.byPopularityDesc(func(m models.Movie) bool {
		if _, skip := excluded[m.ID]; skip {
			return false
		}
		for _, want := range genres {
			for _, got := range m.Genres.Names() {
				if strings.EqualFold(got, want) {
					return true
				}
			}
		}
		return false
	}, limit), nil
}

func (f *fakeStore) TopByPopularity(ctx context.Context, exclude []int64, limit int) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	excluded := idSet(exclude)
	return f.byPopularityDesc(func(m models.Movie) bool {
		_, skip := excluded[m.ID]
		return !skip
	}, limit), nil
}

func (f *fakeStore) CountTrackedEntries(ctx context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tracked[userID]), nil
}

func (f *fakeStore) TrackedMovieIDs(ctx context.Context, userID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for _, tm := range f.tracked[userID] {
		ids = append(ids, tm.ID)
	}
	return ids, nil
}

func (f *fakeStore) ListTrackedMovies(ctx context.Context, userID int64) ([]models.TrackedMovie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracked[userID], nil
}

func (f *fakeStore) cacheEntry(subjectID int64, kind string) *database.CacheEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.cache[cacheKeyString(subjectID, kind)]
	if !ok {
		return nil
	}
	return &entry
}

func (f *fakeStore) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts
}

// fakeScorer returns scripted rankings and counts invocations per mode.
type fakeScorer struct {
	mu sync.Mutex

	popularIDs []int64
	collabIDs  []int64
	similarIDs []int64
	err        error

	popularCalls int
	collabCalls  int
	similarCalls int
}

func (f *fakeScorer) Popular(ctx context.Context, topN int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.popularCalls++
	if f.err != nil {
		return nil, f.err
	}
	ids := f.popularIDs
	if len(ids) > topN {
		ids = ids[:topN]
	}
	return ids, nil
}

func (f *fakeScorer) Collaborative(ctx context.Context, userID int64, k int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collabCalls++
	if f.err != nil {
		return nil, f.err
	}
	ids := f.collabIDs
	if len(ids) > k {
		ids = ids[:k]
	}
	return ids, nil
}

func (f *fakeScorer) Similar(ctx context.Context, title string, k int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.similarCalls++
	if f.err != nil {
		return nil, f.err
	}
	ids := f.similarIDs
	if len(ids) > k {
		ids = ids[:k]
	}
	return ids, nil
}

func (f *fakeScorer) calls() (popular, collab, similar int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.popularCalls, f.collabCalls, f.similarCalls
}

func (f *fakeScorer) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}
