// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

// Package api exposes the HTTP surface: catalog browsing, tracked lists,
// and the recommendation endpoints backed by the coordinator.
package api

import (
	"context"
	"net/http"

	"github.com/cinelogue/cinelogue/internal/config"
	"github.com/cinelogue/cinelogue/internal/database"
	"github.com/cinelogue/cinelogue/internal/models"
	"github.com/cinelogue/cinelogue/internal/recommend"
)

// Result-count bounds per endpoint.
const (
	popularLimitDefault = 10
	popularLimitMax     = 50

	personalizedLimitDefault = 10
	personalizedLimitMax     = 30

	similarLimitDefault = 10
	similarLimitMax     = 20

	genreLimitDefault = 10
	genreLimitMax     = 50

	// randomPoolSize bounds the popularity pool the random pick draws
	// from.
	randomPoolSize = 500
)

// Recommender is the coordinator surface the handlers consume; tests
// substitute a fake.
type Recommender interface {
	Popular(ctx context.Context, limit int) (*recommend.Result, error)
	Personalized(ctx context.Context, userID int64, limit int) (*recommend.Result, error)
	Similar(ctx context.Context, movieID int64, limit int) (*recommend.Result, error)
}

// Store is the storage surface the handlers consume. *database.DB
// satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	GetMovieByID(ctx context.Context, id int64) (*models.Movie, error)
	GetMoviesByIDs(ctx context.Context, ids []int64) ([]models.Movie, error)
	ListMovies(ctx context.Context, filter database.MovieFilter) ([]models.Movie, error)
	CountMovies(ctx context.Context, filter database.MovieFilter) (int64, error)
	MoviesByGenres(ctx context.Context, genres []string, exclude []int64, limit int) ([]models.Movie, error)
	RandomFromTop(ctx context.Context, n int) (*models.Movie, error)
	GetStats(ctx context.Context) (*database.Stats, error)

	UpsertTrackedEntry(ctx context.Context, entry *models.TrackedEntry) error
	GetTrackedEntry(ctx context.Context, userID, movieID int64) (*models.TrackedEntry, error)
	DeleteTrackedEntry(ctx context.Context, userID, movieID int64) error
	ListTrackedMovies(ctx context.Context, userID int64) ([]models.TrackedMovie, error)
	UserAvgScore(ctx context.Context, userID int64) (*float64, error)
}

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	store       Store
	recommender Recommender
	cfg         *config.Config
}

// NewHandler wires the endpoint dependencies.
func NewHandler(store Store, recommender Recommender, cfg *config.Config) *Handler {
	return &Handler{store: store, recommender: recommender, cfg: cfg}
}

// fixPosters rewrites partial poster paths to absolute URLs in place.
func (h *Handler) fixPosters(movies []models.Movie) {
	models.ResolvePosterURLs(movies, h.cfg.Recommend.ImageBaseURL)
}

// Health reports liveness plus database readiness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{OK: true, Status: "ok", Database: "up"}
	status := http.StatusOK
	if err := h.store.Ping(r.Context()); err != nil {
		resp = models.HealthResponse{OK: false, Status: "degraded", Database: "down"}
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}
