// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cinelogue/cinelogue/internal/config"
	"github.com/cinelogue/cinelogue/internal/logging"
	"github.com/cinelogue/cinelogue/internal/metrics"
	"github.com/cinelogue/cinelogue/internal/models"
	"github.com/cinelogue/cinelogue/internal/scorer"
)

// fetchFunc computes a fresh ranked list for one cache key: scorer call,
// then catalog resolution. The returned order is the scorer's preference
// order and must be preserved into the cache and the response.
type fetchFunc func(ctx context.Context) ([]models.Movie, error)

// Coordinator decides, per (subject, kind) request, whether to serve the
// cached list, trigger a background refresh, or block for a synchronous
// first computation.
//
// The state machine per request:
//
//	no entry     -> synchronous fetch, upsert, respond (failures surface)
//	fresh entry  -> respond from cache
//	stale entry  -> respond from cache, detach a refresh for later callers
//
// Concurrent stale requests for the same key may each launch a refresh;
// upsert's replace semantics make the redundancy harmless, and the rate
// limiter keeps the subprocess fan-out bounded.
type Coordinator struct {
	store  Store
	scorer scorer.Scorer
	clock  Clock
	cfg    *config.RecommendConfig

	// refreshLimit caps detached refresh launches. A stale hit over the
	// limit skips its refresh and leaves it to a later request.
	refreshLimit *rate.Limiter

	// wg tracks detached refreshes so Wait can drain them on shutdown.
	wg sync.WaitGroup
}

// NewCoordinator wires the recommendation core. The clock defaults to
// the system clock; tests substitute a fixed one via WithClock.
func NewCoordinator(store Store, sc scorer.Scorer, cfg *config.RecommendConfig) *Coordinator {
	perMinute := cfg.RefreshPerMinute
	if perMinute <= 0 {
		perMinute = 1
	}
	return &Coordinator{
		store:        store,
		scorer:       sc,
		clock:        SystemClock,
		cfg:          cfg,
		refreshLimit: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

// WithClock replaces the coordinator's clock and returns the
// coordinator, for deterministic staleness tests.
func (c *Coordinator) WithClock(clock Clock) *Coordinator {
	c.clock = clock
	return c
}

// Wait blocks until all detached refreshes have finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Popular returns the global popularity-ranked list, at most limit
// movies.
func (c *Coordinator) Popular(ctx context.Context, limit int) (*Result, error) {
	movies, err := c.serve(ctx, GlobalKey(KindPopular), c.fetchPopular)
	if err != nil {
		return nil, err
	}
	return &Result{Movies: truncate(movies, limit)}, nil
}

// Personalized returns recommendations for one user, at most limit
// movies. Users with fewer tracked entries than the eligibility minimum
// never reach the scorer: the genre fallback answers directly, bypassing
// the cache entirely.
func (c *Coordinator) Personalized(ctx context.Context, userID int64, limit int) (*Result, error) {
	count, err := c.store.CountTrackedEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tracked entries: %w", err)
	}
	if count < c.cfg.MinHistory {
		return genreFallback(ctx, c.store, userID, limit)
	}

	fetch := func(ctx context.Context) ([]models.Movie, error) {
		return c.fetchCollaborative(ctx, userID, limit)
	}
	movies, err := c.serve(ctx, SubjectKey(userID, KindPersonalized), fetch)
	if err != nil {
		return nil, err
	}
	return &Result{Movies: truncate(movies, limit), Personalized: true}, nil
}

// serve runs the cache state machine for one key and returns the full
// (untruncated) list in preference order.
func (c *Coordinator) serve(ctx context.Context, key CacheKey, fetch fetchFunc) ([]models.Movie, error) {
	kind := string(key.Kind())

	entry, err := c.store.GetCacheEntry(ctx, key.storageID(), kind)
	if err != nil {
		return nil, fmt.Errorf("failed to read recommendation cache: %w", err)
	}

	if entry == nil {
		// First computation for this key blocks the caller; a failure
		// here surfaces and leaves no cache entry behind, so the next
		// request retries from scratch.
		metrics.CacheMisses.WithLabelValues(kind).Inc()
		movies, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.store.UpsertCacheEntry(ctx, key.storageID(), kind, movies, c.clock.Now()); err != nil {
			return nil, fmt.Errorf("failed to store recommendation cache: %w", err)
		}
		return movies, nil
	}

	metrics.CacheHits.WithLabelValues(kind).Inc()

	age := c.clock.Now().Sub(entry.UpdatedAt)
	if age >= c.cfg.StaleAfter {
		// Serve the stale snapshot now; refresh for the next caller.
		metrics.StaleServed.WithLabelValues(kind).Inc()
		c.scheduleRefresh(ctx, key, fetch)
	}
	return entry.Movies, nil
}

// scheduleRefresh launches a detached fetch-and-replace for the key.
// The refresh runs on a context cut loose from the request: a caller
// disconnect must not cancel a computation whose result is cached for
// everyone. Failures are counted and logged, never propagated; the
// previously cached entry stays servable.
func (c *Coordinator) scheduleRefresh(ctx context.Context, key CacheKey, fetch fetchFunc) {
	kind := string(key.Kind())

	if !c.refreshLimit.Allow() {
		logging.Debug().Str("kind", kind).Msg("refresh rate limit hit, leaving stale entry for a later request")
		return
	}

	detached := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		movies, err := fetch(detached)
		if err != nil {
			metrics.RefreshFailures.WithLabelValues(kind).Inc()
			logging.Warn().Str("kind", kind).Err(err).Msg("background recommendation refresh failed")
			return
		}
		if err := c.store.UpsertCacheEntry(detached, key.storageID(), kind, movies, c.clock.Now()); err != nil {
			metrics.RefreshFailures.WithLabelValues(kind).Inc()
			logging.Warn().Str("kind", kind).Err(err).Msg("failed to store refreshed recommendations")
		}
	}()
}

// fetchPopular asks the scorer for the global top-N, keeps the first
// PopularKeep identifiers, and resolves them against the catalog with
// the poster gate on.
func (c *Coordinator) fetchPopular(ctx context.Context) ([]models.Movie, error) {
	ids, err := c.scorer.Popular(ctx, c.cfg.PopularTopN)
	if err != nil {
		return nil, err
	}
	if len(ids) > c.cfg.PopularKeep {
		ids = ids[:c.cfg.PopularKeep]
	}
	return resolveRanked(ctx, c.store, ids, nil, true)
}

// fetchCollaborative asks the scorer for 2x the requested count so the
// list survives exclusion of the user's own tracked movies, then
// resolves with those movies excluded and the poster gate on.
func (c *Coordinator) fetchCollaborative(ctx context.Context, userID int64, limit int) ([]models.Movie, error) {
	ids, err := c.scorer.Collaborative(ctx, userID, 2*limit)
	if err != nil {
		return nil, err
	}
	trackedIDs, err := c.store.TrackedMovieIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracked ids: %w", err)
	}
	return resolveRanked(ctx, c.store, ids, idSet(trackedIDs), true)
}

// truncate caps the list without re-sorting it.
func truncate(movies []models.Movie, limit int) []models.Movie {
	if limit > 0 && len(movies) > limit {
		return movies[:limit]
	}
	return movies
}
