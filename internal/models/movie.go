// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

// Package models defines the shared data types for the Cinelogue catalog,
// tracked lists, and API response envelopes.
package models

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Genre is a single genre tag attached to a movie. The catalog stores the
// genre list as a serialized JSON array of {name} objects, matching the
// upstream movie database export.
type Genre struct {
	Name string `json:"name"`
}

// GenreList is the ordered genre sequence of a movie.
type GenreList []Genre

// ParseGenres decodes a serialized genre list. Malformed or empty input
// yields an empty list rather than an error: catalog rows ingested from
// upstream exports occasionally carry null or truncated genre data, and a
// missing genre list must never fail a read path.
func ParseGenres(raw string) GenreList {
	if raw == "" {
		return nil
	}
	var genres GenreList
	if err := json.Unmarshal([]byte(raw), &genres); err != nil {
		return nil
	}
	return genres
}

// Names returns the genre names in list order, skipping empty entries.
func (g GenreList) Names() []string {
	names := make([]string, 0, len(g))
	for _, genre := range g {
		if genre.Name != "" {
			names = append(names, genre.Name)
		}
	}
	return names
}

// Serialize encodes the genre list back to its stored JSON form.
func (g GenreList) Serialize() string {
	if len(g) == 0 {
		return "[]"
	}
	data, err := json.Marshal(g)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Movie is a catalog item. Identifiers are externally assigned by the
// upstream movie database and are stable across ingestions. The catalog is
// read-only to the recommendation core; only ingestion mutates it.
type Movie struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Overview    string     `json:"overview,omitempty"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	Genres      GenreList  `json:"genres"`
	Popularity  *float64   `json:"popularity,omitempty"`
	PosterURL   *string    `json:"posterUrl,omitempty"`
}

// HasPoster reports whether the movie carries a displayable artwork
// reference.
func (m *Movie) HasPoster() bool {
	return m.PosterURL != nil && *m.PosterURL != ""
}

// ResolvePosterURL rewrites a partial artwork path into an absolute URL by
// prefixing the image base URL. Absolute references are left untouched.
func (m *Movie) ResolvePosterURL(baseURL string) {
	if m.PosterURL == nil || *m.PosterURL == "" {
		return
	}
	if strings.HasPrefix(*m.PosterURL, "http") {
		return
	}
	resolved := baseURL + *m.PosterURL
	m.PosterURL = &resolved
}

// ResolvePosterURLs applies ResolvePosterURL to every movie in the slice.
func ResolvePosterURLs(movies []Movie, baseURL string) {
	for i := range movies {
		movies[i].ResolvePosterURL(baseURL)
	}
}
