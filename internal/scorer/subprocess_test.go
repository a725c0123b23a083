// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package scorer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cinelogue/cinelogue/internal/config"
)

// writeScript drops a shell script that stands in for the scorer CLI.
// The scorer config points its interpreter at /bin/sh, so tests exercise
// the real subprocess path without Python.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scorer.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func testScorer(t *testing.T, scriptBody string) *CLIScorer {
	t.Helper()
	return NewCLIScorer(&config.ScorerConfig{
		Python:          "/bin/sh",
		Script:          writeScript(t, scriptBody),
		DataDir:         t.TempDir(),
		Timeout:         5 * time.Second,
		BreakerFailures: 100,
		BreakerCooldown: time.Minute,
	})
}

func TestCLIScorerSuccess(t *testing.T) {
	s := testScorer(t, `echo '{"ok": true, "items": [{"id": 5}, {"movieId": 3}, {"movie_id": 9}]}'`)

	ids, err := s.Popular(context.Background(), 10)
	if err != nil {
		t.Fatalf("Popular() error = %v", err)
	}
	want := []int64{5, 3, 9}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestCLIScorerDropsBadIdentifiers(t *testing.T) {
	s := testScorer(t, `echo '{"ok": true, "items": [{"id": 7}, {"id": 0}, {"id": -4}, {"title": "no id"}]}'`)

	ids, err := s.Popular(context.Background(), 10)
	if err != nil {
		t.Fatalf("Popular() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != 7 {
		t.Errorf("ids = %v, want [7]", ids)
	}
}

func TestCLIScorerFailureKinds(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   ErrorKind
	}{
		{
			name:   "non-zero exit",
			script: `exit 3`,
			want:   ProcessFailure,
		},
		{
			name:   "malformed output",
			script: `echo 'not json at all'`,
			want:   ParseFailure,
		},
		{
			name:   "ok false",
			script: `echo '{"ok": false, "error": "model not trained"}'`,
			want:   LogicalFailure,
		},
		{
			name:   "missing items",
			script: `echo '{"ok": true}'`,
			want:   LogicalFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScorer(t, tt.script)
			_, err := s.Popular(context.Background(), 10)
			var invokeErr *InvokeError
			if !errors.As(err, &invokeErr) {
				t.Fatalf("Popular() error = %v, want *InvokeError", err)
			}
			if invokeErr.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", invokeErr.Kind, tt.want)
			}
		})
	}
}

func TestCLIScorerTimeout(t *testing.T) {
	s := NewCLIScorer(&config.ScorerConfig{
		Python:          "/bin/sh",
		Script:          writeScript(t, `sleep 5`),
		DataDir:         t.TempDir(),
		Timeout:         100 * time.Millisecond,
		BreakerFailures: 100,
		BreakerCooldown: time.Minute,
	})

	_, err := s.Popular(context.Background(), 10)
	var invokeErr *InvokeError
	if !errors.As(err, &invokeErr) {
		t.Fatalf("Popular() error = %v, want *InvokeError", err)
	}
	if invokeErr.Kind != ProcessFailure {
		t.Errorf("Kind = %q, want %q", invokeErr.Kind, ProcessFailure)
	}
}

func TestCLIScorerBreakerOpens(t *testing.T) {
	s := NewCLIScorer(&config.ScorerConfig{
		Python:          "/bin/sh",
		Script:          writeScript(t, `exit 1`),
		DataDir:         t.TempDir(),
		Timeout:         5 * time.Second,
		BreakerFailures: 2,
		BreakerCooldown: time.Hour,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := s.Popular(ctx, 10); err == nil {
			t.Fatalf("Popular() call %d succeeded, want failure", i)
		}
	}

	// The breaker is now open; the failure still classifies as a
	// process failure even though no subprocess runs.
	_, err := s.Popular(ctx, 10)
	var invokeErr *InvokeError
	if !errors.As(err, &invokeErr) {
		t.Fatalf("Popular() error = %v, want *InvokeError", err)
	}
	if invokeErr.Kind != ProcessFailure {
		t.Errorf("Kind after breaker open = %q, want %q", invokeErr.Kind, ProcessFailure)
	}
}

func TestCLIScorerModeFlags(t *testing.T) {
	// The script echoes its arguments back as the error message so the
	// test can assert on the flag wiring.
	s := testScorer(t, `echo "{\"ok\": false, \"error\": \"$*\"}"`)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want []string
	}{
		{
			name: "popular",
			call: func() error { _, err := s.Popular(ctx, 100); return err },
			want: []string{"--mode popular", "--top-n 100"},
		},
		{
			name: "svd",
			call: func() error { _, err := s.Collaborative(ctx, 42, 20); return err },
			want: []string{"--mode svd", "--user-id 42", "--k 20"},
		},
		{
			name: "overview",
			call: func() error { _, err := s.Similar(ctx, "Alien", 10); return err },
			want: []string{"--mode overview", "--title Alien", "--k 10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var invokeErr *InvokeError
			if !errors.As(err, &invokeErr) {
				t.Fatalf("error = %v, want *InvokeError", err)
			}
			got := invokeErr.Err.Error()
			for _, frag := range tt.want {
				if !strings.Contains(got, frag) {
					t.Errorf("args %q missing %q", got, frag)
				}
			}
		})
	}
}
