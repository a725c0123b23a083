// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinelogue/cinelogue/internal/config"
)

// NewRouter assembles the HTTP surface.
func NewRouter(handler *Handler, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(requestMetrics)

		r.Get("/health", handler.Health)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", handler.ListMovies)
			r.Get("/stats", handler.MovieStats)
			r.Get("/{movieID}", handler.GetMovie)
		})

		r.Route("/users/{userID}/list", func(r chi.Router) {
			r.Get("/", handler.ListTracked)
			r.Post("/", handler.AddTracked)
			r.Get("/{movieID}", handler.CheckTracked)
			r.Patch("/{movieID}", handler.UpdateTracked)
			r.Delete("/{movieID}", handler.DeleteTracked)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/popular", handler.PopularRecommendations)
			r.Get("/random", handler.RandomRecommendation)
			r.Get("/genre", handler.GenreRecommendations)
			r.Get("/users/{userID}/personalized", handler.PersonalizedRecommendations)
			r.Get("/movies/{movieID}/similar", handler.SimilarRecommendations)
		})
	})

	return r
}
