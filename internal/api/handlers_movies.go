// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package api

import (
	"net/http"

	"github.com/cinelogue/cinelogue/internal/database"
	"github.com/cinelogue/cinelogue/internal/models"
)

// ListMovies pages through the catalog. Query parameters: page, limit,
// search (title substring), genre, sort (popular|newest), or ids= for a
// batch fetch that bypasses paging.
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if rawIDs := q.Get("ids"); rawIDs != "" {
		ids, err := queryIDs(rawIDs)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		movies, err := h.store.GetMoviesByIDs(ctx, ids)
		if err != nil {
			respondMappedError(w, r, err)
			return
		}
		h.fixPosters(movies)
		respondJSON(w, http.StatusOK, models.MoviesResponse{OK: true, Movies: orEmpty(movies)})
		return
	}

	page, err := queryPage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	limit, err := queryLimit(r, h.cfg.API.DefaultPageSize, h.cfg.API.MaxPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	sort := q.Get("sort")
	if sort != "" && sort != "popular" && sort != "newest" {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "sort must be popular or newest")
		return
	}

	filter := database.MovieFilter{
		Search: q.Get("search"),
		Genre:  q.Get("genre"),
		Sort:   sort,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	movies, err := h.store.ListMovies(ctx, filter)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	total, err := h.store.CountMovies(ctx, filter)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}

	h.fixPosters(movies)
	respondJSON(w, http.StatusOK, models.MoviesResponse{
		OK:     true,
		Movies: orEmpty(movies),
		Total:  &total,
		Page:   page,
		Limit:  limit,
	})
}

// GetMovie returns one catalog entry.
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "movieID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	movie, err := h.store.GetMovieByID(r.Context(), id)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	movie.ResolvePosterURL(h.cfg.Recommend.ImageBaseURL)
	respondJSON(w, http.StatusOK, models.MovieResponse{OK: true, Movie: *movie})
}

// MovieStats returns catalog-wide aggregates. With a user query
// parameter it additionally reports that user's average score.
func (h *Handler) MovieStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.store.GetStats(ctx)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	resp := models.StatsResponse{
		OK:            true,
		TotalMovies:   stats.TotalMovies,
		TotalUsers:    stats.TotalUsers,
		TotalTracked:  stats.TotalTracked,
		AvgPopularity: stats.AvgPopularity,
	}

	if rawUser := r.URL.Query().Get("user"); rawUser != "" {
		ids, err := queryIDs(rawUser)
		if err != nil || len(ids) != 1 {
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid user parameter")
			return
		}
		avg, err := h.store.UserAvgScore(ctx, ids[0])
		if err != nil {
			respondMappedError(w, r, err)
			return
		}
		resp.UserAvgScore = avg
	}

	respondJSON(w, http.StatusOK, resp)
}

// orEmpty substitutes an empty slice for nil so list responses always
// carry a JSON array.
func orEmpty(movies []models.Movie) []models.Movie {
	if movies == nil {
		return []models.Movie{}
	}
	return movies
}
