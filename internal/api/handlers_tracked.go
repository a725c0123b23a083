// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/cinelogue/cinelogue/internal/database"
	"github.com/cinelogue/cinelogue/internal/models"
	"github.com/cinelogue/cinelogue/internal/validation"
)

// trackedUpsertRequest is the body for adding or editing a tracked
// entry.
type trackedUpsertRequest struct {
	MovieID int64  `json:"movieId" validate:"required,gt=0"`
	Status  string `json:"status" validate:"omitempty,oneof=watching completed on-hold dropped plan-to-watch"`
	Score   *int   `json:"score" validate:"omitempty,gte=1,lte=10"`
}

// trackedUpdateRequest is the body for editing an existing entry; the
// movie id comes from the URL.
type trackedUpdateRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=watching completed on-hold dropped plan-to-watch"`
	Score  *int   `json:"score" validate:"omitempty,gte=1,lte=10"`
}

// ListTracked returns the user's tracked list joined with catalog data.
func (h *Handler) ListTracked(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	tracked, err := h.store.ListTrackedMovies(r.Context(), userID)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	if tracked == nil {
		tracked = []models.TrackedMovie{}
	}
	for i := range tracked {
		tracked[i].ResolvePosterURL(h.cfg.Recommend.ImageBaseURL)
	}
	respondJSON(w, http.StatusOK, models.TrackedListResponse{OK: true, Movies: tracked})
}

// AddTracked inserts or replaces an entry in the user's list. The movie
// must exist in the catalog.
func (h *Handler) AddTracked(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	var req trackedUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	if _, err := h.store.GetMovieByID(ctx, req.MovieID); err != nil {
		respondMappedError(w, r, err)
		return
	}

	entry := &models.TrackedEntry{
		UserID:  userID,
		MovieID: req.MovieID,
		Status:  models.Status(req.Status),
		Score:   req.Score,
	}
	if err := h.store.UpsertTrackedEntry(ctx, entry); err != nil {
		respondMappedError(w, r, err)
		return
	}
	stored, err := h.store.GetTrackedEntry(ctx, userID, req.MovieID)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, models.TrackedEntryResponse{OK: true, Entry: *stored})
}

// UpdateTracked edits the status or score of an existing entry.
func (h *Handler) UpdateTracked(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	movieID, err := pathID(r, "movieID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	var req trackedUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	// The entry must already exist; update never creates.
	if _, err := h.store.GetTrackedEntry(ctx, userID, movieID); err != nil {
		respondMappedError(w, r, err)
		return
	}

	entry := &models.TrackedEntry{
		UserID:  userID,
		MovieID: movieID,
		Status:  models.Status(req.Status),
		Score:   req.Score,
	}
	if err := h.store.UpsertTrackedEntry(ctx, entry); err != nil {
		respondMappedError(w, r, err)
		return
	}
	stored, err := h.store.GetTrackedEntry(ctx, userID, movieID)
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.TrackedEntryResponse{OK: true, Entry: *stored})
}

// DeleteTracked removes an entry from the user's list.
func (h *Handler) DeleteTracked(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	movieID, err := pathID(r, "movieID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	if err := h.store.DeleteTrackedEntry(r.Context(), userID, movieID); err != nil {
		respondMappedError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.MessageResponse{OK: true, Message: "removed"})
}

// CheckTracked reports whether one movie is in the user's list.
func (h *Handler) CheckTracked(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	movieID, err := pathID(r, "movieID")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	entry, err := h.store.GetTrackedEntry(r.Context(), userID, movieID)
	if errors.Is(err, database.ErrEntryNotFound) {
		// Absence is a normal answer here, not a 404.
		respondJSON(w, http.StatusOK, models.TrackedCheckResponse{OK: true, InList: false})
		return
	}
	if err != nil {
		respondMappedError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.TrackedCheckResponse{
		OK:     true,
		InList: true,
		Status: entry.Status,
		Score:  entry.Score,
	})
}
