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
	"github.com/cinelogue/cinelogue/internal/logging"
	"github.com/cinelogue/cinelogue/internal/models"
	"github.com/cinelogue/cinelogue/internal/scorer"
	"github.com/cinelogue/cinelogue/internal/validation"
)

// Machine-readable error codes carried in the error envelope.
const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeValidation  = "VALIDATION_FAILED"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeScorer      = "SCORER_UNAVAILABLE"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// respondJSON writes data with the given status.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError writes the error envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, models.ErrorResponse{OK: false, Code: code, Message: message})
}

// respondMappedError classifies an error from the storage or
// recommendation layers into an HTTP status. Scorer failures map to 502:
// the upstream computation is unavailable, not this service. Anything
// unrecognized is unexpected by the propagation policy and surfaces as a
// logged 500.
func respondMappedError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrMovieNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "movie not found")
	case errors.Is(err, database.ErrUserNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "user not found")
	case errors.Is(err, database.ErrEntryNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "entry not found")
	default:
		var invokeErr *scorer.InvokeError
		if errors.As(err, &invokeErr) {
			logging.Warn().Str("path", r.URL.Path).Err(err).Msg("scorer failure surfaced to caller")
			respondError(w, http.StatusBadGateway, ErrCodeScorer, "recommendation computation failed")
			return
		}
		logging.Error().Str("path", r.URL.Path).Err(err).Msg("unexpected handler error")
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

// respondValidationError writes a 400 with the first field message.
func respondValidationError(w http.ResponseWriter, verr *validation.RequestValidationError) {
	respondError(w, http.StatusBadRequest, ErrCodeValidation, verr.Error())
}
