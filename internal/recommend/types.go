// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

// Package recommend implements the recommendation core: the cache
// staleness state machine, the catalog filter that merges external
// rankings with live catalog state, and the genre fallback used when a
// user's history is too thin for collaborative filtering.
package recommend

import (
	"context"
	"time"

	"github.com/cinelogue/cinelogue/internal/database"
	"github.com/cinelogue/cinelogue/internal/models"
)

// Kind is the recommendation category.
type Kind string

// Recommendation kinds.
const (
	KindPopular      Kind = "popular"
	KindPersonalized Kind = "personalized"
)

// globalSubjectID is the reserved subject identifier stored for
// recommendation kinds with no real subject. It exists only at the
// storage boundary; everything above it works with CacheKey.
const globalSubjectID int64 = -1

// CacheKey identifies one cached recommendation list. Global kinds have
// no subject; per-subject kinds carry the user id. The tagged form keeps
// the storage sentinel out of the core logic.
type CacheKey struct {
	kind      Kind
	subjectID int64
	global    bool
}

// GlobalKey returns the key for a kind with no subject.
func GlobalKey(kind Kind) CacheKey {
	return CacheKey{kind: kind, global: true}
}

// SubjectKey returns the key for a per-user kind.
func SubjectKey(subjectID int64, kind Kind) CacheKey {
	return CacheKey{kind: kind, subjectID: subjectID}
}

// Kind returns the key's recommendation kind.
func (k CacheKey) Kind() Kind {
	return k.kind
}

// storageID maps the key to the subject column value, using the
// reserved sentinel for global keys.
func (k CacheKey) storageID() int64 {
	if k.global {
		return globalSubjectID
	}
	return k.subjectID
}

// Clock supplies the current time. Staleness decisions go through it so
// boundary tests can pin the clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock is the production clock.
var SystemClock Clock = ClockFunc(time.Now)

// CacheStore is the persistence boundary for computed recommendation
// lists. Get returns nil when no entry exists; Upsert replaces the
// entry wholesale.
type CacheStore interface {
	GetCacheEntry(ctx context.Context, subjectID int64, kind string) (*database.CacheEntry, error)
	UpsertCacheEntry(ctx context.Context, subjectID int64, kind string, movies []models.Movie, now time.Time) error
}

// Catalog is the read boundary to the movie catalog, the exact query
// shapes the core needs.
type Catalog interface {
	GetMoviesByIDs(ctx context.Context, ids []int64) ([]models.Movie, error)
	MoviesByGenres(ctx context.Context, genres []string, exclude []int64, limit int) ([]models.Movie, error)
	TopByPopularity(ctx context.Context, exclude []int64, limit int) ([]models.Movie, error)
}

// TrackedReader exposes the user-history reads the core needs: the
// eligibility count, the exclusion set, and the genre source.
type TrackedReader interface {
	CountTrackedEntries(ctx context.Context, userID int64) (int, error)
	TrackedMovieIDs(ctx context.Context, userID int64) ([]int64, error)
	ListTrackedMovies(ctx context.Context, userID int64) ([]models.TrackedMovie, error)
}

// Store bundles the persistence interfaces the coordinator consumes.
// *database.DB satisfies it.
type Store interface {
	CacheStore
	Catalog
	TrackedReader
	GetMovieByID(ctx context.Context, id int64) (*models.Movie, error)
}

// Result is one computed recommendation response.
type Result struct {
	// Movies is in scorer preference order, truncated but never
	// re-sorted.
	Movies []models.Movie
	// Personalized reports whether the collaborative path produced the
	// list; false means the genre fallback ran.
	Personalized bool
	// BasedOnGenres names the fallback's seed genres, empty on the
	// collaborative and popular paths.
	BasedOnGenres []string
}
