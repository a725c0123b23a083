// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package models

// The SPA consumes a flat `ok` envelope rather than a nested data wrapper;
// the response types below are that HTTP contract.

// MoviesResponse is the success envelope for endpoints returning movie
// lists, including the recommendation endpoints.
type MoviesResponse struct {
	OK            bool     `json:"ok"`
	Movies        []Movie  `json:"movies"`
	Personalized  *bool    `json:"personalized,omitempty"`
	BasedOnGenres []string `json:"basedOnGenres,omitempty"`
	Genre         string   `json:"genre,omitempty"`
	Total         *int64   `json:"total,omitempty"`
	Page          int      `json:"page,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}

// MovieResponse wraps a single movie.
type MovieResponse struct {
	OK    bool  `json:"ok"`
	Movie Movie `json:"movie"`
}

// TrackedListResponse wraps a user's tracked list.
type TrackedListResponse struct {
	OK     bool           `json:"ok"`
	Movies []TrackedMovie `json:"movies"`
}

// TrackedEntryResponse wraps a single tracked entry after a write.
type TrackedEntryResponse struct {
	OK      bool         `json:"ok"`
	Message string       `json:"message,omitempty"`
	Entry   TrackedEntry `json:"entry"`
}

// TrackedCheckResponse reports list membership for one movie.
type TrackedCheckResponse struct {
	OK     bool   `json:"ok"`
	InList bool   `json:"inList"`
	Status Status `json:"status,omitempty"`
	Score  *int   `json:"score,omitempty"`
}

// StatsResponse carries catalog-wide aggregates.
type StatsResponse struct {
	OK             bool     `json:"ok"`
	TotalMovies    int64    `json:"totalMovies"`
	TotalUsers     int64    `json:"totalUsers"`
	TotalTracked   int64    `json:"totalTracked"`
	AvgPopularity  *float64 `json:"avgPopularity"`
	UserAvgScore   *float64 `json:"userAvgScore,omitempty"`
}

// MessageResponse is a bare success acknowledgement.
type MessageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope: a machine-readable code plus a
// human-readable message, paired with a mapped HTTP status.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// HealthResponse reports service liveness and dependency readiness.
type HealthResponse struct {
	OK       bool   `json:"ok"`
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}
