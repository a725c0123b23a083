// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package models

import "time"

// Status is the watch status of a tracked entry. The zero value means the
// user tracks the title without a status.
type Status string

// Watch statuses.
const (
	StatusNone        Status = ""
	StatusWatching    Status = "watching"
	StatusCompleted   Status = "completed"
	StatusOnHold      Status = "on-hold"
	StatusDropped     Status = "dropped"
	StatusPlanToWatch Status = "plan-to-watch"
)

// Valid reports whether s is a recognized status value.
func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusWatching, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToWatch:
		return true
	}
	return false
}

// TrackedEntry relates a user to a catalog movie. At most one entry exists
// per (user, movie) pair; writes go through upsert.
type TrackedEntry struct {
	UserID    int64     `json:"userId"`
	MovieID   int64     `json:"movieId"`
	Status    Status    `json:"status,omitempty"`
	Score     *int      `json:"score,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TrackedMovie is a tracked entry joined with its catalog movie, the shape
// returned by the list endpoints.
type TrackedMovie struct {
	Movie
	Status Status `json:"status,omitempty"`
	Score  *int   `json:"score,omitempty"`
}

// User is a minimal account record. Authentication is out of scope; user
// rows exist so tracked entries and cache rows have a real subject.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}
