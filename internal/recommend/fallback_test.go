// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package recommend

import (
	"context"
	"testing"

	"github.com/cinelogue/cinelogue/internal/models"
)

func trackedMovie(id int64, genres ...string) models.TrackedMovie {
	return models.TrackedMovie{Movie: movieWithPoster(id, 1, genres...)}
}

func TestCollectGenres(t *testing.T) {
	tests := []struct {
		name    string
		tracked []models.TrackedMovie
		want    []string
	}{
		{
			name: "first appearance order, deduplicated",
			tracked: []models.TrackedMovie{
				trackedMovie(1, "Drama", "Crime"),
				trackedMovie(2, "Crime", "Thriller"),
			},
			want: []string{"Drama", "Crime", "Thriller"},
		},
		{
			name: "capped at six",
			tracked: []models.TrackedMovie{
				trackedMovie(1, "A", "B", "C", "D"),
				trackedMovie(2, "E", "F", "G", "H"),
			},
			want: []string{"A", "B", "C", "D", "E", "F"},
		},
		{
			name:    "no genre data",
			tracked: []models.TrackedMovie{trackedMovie(1)},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectGenres(tt.tracked)
			if len(got) != len(tt.want) {
				t.Fatalf("collectGenres() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("genre[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenreFallbackPadding(t *testing.T) {
	store := newFakeStore()

	// Two catalog movies share the user's genre; the rest are padding
	// candidates ranked by popularity.
	store.addMovie(movieWithPoster(10, 40, "Western"))
	store.addMovie(movieWithPoster(11, 80, "Western"))
	for i := int64(0); i < 10; i++ {
		store.addMovie(movieWithPoster(100+i, float64(100-i), "Comedy"))
	}

	store.addTracked(1, trackedMovie(200, "Western"))
	store.addMovie(movieWithPoster(200, 99, "Western"))

	result, err := genreFallback(context.Background(), store, 1, 10)
	if err != nil {
		t.Fatalf("genreFallback() error = %v", err)
	}

	if result.Personalized {
		t.Error("Personalized = true, want false on the fallback path")
	}
	if len(result.BasedOnGenres) != 1 || result.BasedOnGenres[0] != "Western" {
		t.Errorf("BasedOnGenres = %v, want [Western]", result.BasedOnGenres)
	}

	// Genre matches first in popularity order, then padding; the
	// tracked movie 200 never appears and nothing repeats.
	want := []int64{11, 10, 100, 101, 102, 103, 104, 105, 106, 107}
	assertIDs(t, result.Movies, want)

	seen := make(map[int64]bool)
	for _, m := range result.Movies {
		if seen[m.ID] {
			t.Errorf("movie %d appears twice", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestGenreFallbackEmptyGenreSet(t *testing.T) {
	store := newFakeStore()
	store.addMovie(movieWithPoster(1, 30))
	store.addMovie(movieWithPoster(2, 70))
	store.addTracked(1, trackedMovie(3)) // no genre data
	store.addMovie(movieWithPoster(3, 99))

	result, err := genreFallback(context.Background(), store, 1, 5)
	if err != nil {
		t.Fatalf("genreFallback() error = %v", err)
	}
	if len(result.BasedOnGenres) != 0 {
		t.Errorf("BasedOnGenres = %v, want empty", result.BasedOnGenres)
	}
	// Straight to the padding step: top popularity minus tracked.
	assertIDs(t, result.Movies, []int64{2, 1})
}

func TestGenreFallbackNoTrackedItems(t *testing.T) {
	store := newFakeStore()
	store.addMovie(movieWithPoster(1, 30))
	store.addMovie(movieWithPoster(2, 70))

	result, err := genreFallback(context.Background(), store, 1, 10)
	if err != nil {
		t.Fatalf("genreFallback() error = %v", err)
	}
	assertIDs(t, result.Movies, []int64{2, 1})
}
