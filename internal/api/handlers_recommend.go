// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package api

import (
	"net/http"

	"github.com/cinelogue/cinelogue/internal/models"
)

// PopularRecommendations serves the global popularity-ranked list.
func (h *Handler) PopularRecommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, popularLimitDefault, popularLimitMax)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	result, err := h.recommender.Popular(r.Context(), limit)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	h.fixPosters(result.Movies)
	respondJSON(w, http.StatusOK, models.MoviesResponse{OK: true, Movies: orEmpty(result.Movies)})
}

// PersonalizedRecommendations serves per-user recommendations: the
// collaborative path when the user's history qualifies, otherwise the
// genre fallback. The response says which path ran.
func (h *Handler) PersonalizedRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	limit, err := queryLimit(r, personalizedLimitDefault, personalizedLimitMax)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	result, err := h.recommender.Personalized(r.Context(), userID, limit)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	h.fixPosters(result.Movies)

	personalized := result.Personalized
	respondJSON(w, http.StatusOK, models.MoviesResponse{
		OK:            true,
		Movies:        orEmpty(result.Movies),
		Personalized:  &personalized,
		BasedOnGenres: result.BasedOnGenres,
	})
}

// SimilarRecommendations serves content-similar movies for a detail
// page.
func (h *Handler) SimilarRecommendations(w http.ResponseWriter, r *http.Request) {
	movieID, err := pathID(r, "movieID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	limit, err := queryLimit(r, similarLimitDefault, similarLimitMax)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	result, err := h.recommender.Similar(r.Context(), movieID, limit)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	h.fixPosters(result.Movies)
	respondJSON(w, http.StatusOK, models.MoviesResponse{
		OK:            true,
		Movies:        orEmpty(result.Movies),
		BasedOnGenres: result.BasedOnGenres,
	})
}

// RandomRecommendation picks one movie from the popularity top of the
// catalog.
func (h *Handler) RandomRecommendation(w http.ResponseWriter, r *http.Request) {
	movie, err := h.store.RandomFromTop(r.Context(), randomPoolSize)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	movie.ResolvePosterURL(h.cfg.Recommend.ImageBaseURL)
	respondJSON(w, http.StatusOK, models.MovieResponse{OK: true, Movie: *movie})
}

// GenreRecommendations serves the most popular titles for one genre.
func (h *Handler) GenreRecommendations(w http.ResponseWriter, r *http.Request) {
	genre := r.URL.Query().Get("name")
	if genre == "" {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "missing genre name")
		return
	}
	limit, err := queryLimit(r, genreLimitDefault, genreLimitMax)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	movies, err := h.store.MoviesByGenres(r.Context(), []string{genre}, nil, limit)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	h.fixPosters(movies)
	respondJSON(w, http.StatusOK, models.MoviesResponse{
		OK:     true,
		Movies: orEmpty(movies),
		Genre:  genre,
	})
}
