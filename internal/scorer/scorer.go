// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

// Package scorer wraps the external ranking computation. The production
// implementation shells out to a Python CLI; the Scorer interface keeps
// the process boundary swappable so the recommendation core can run
// against an in-process fake in tests.
package scorer

import "context"

// Invocation modes passed to the external process.
const (
	ModePopular  = "popular"
	ModeSVD      = "svd"
	ModeOverview = "overview"
)

// ErrorKind classifies an invocation failure.
type ErrorKind string

// Invocation failure kinds.
const (
	// ProcessFailure: the subprocess could not be spawned, exited
	// non-zero, or exceeded its wall-clock bound.
	ProcessFailure ErrorKind = "process_failure"
	// ParseFailure: stdout was not well-formed structured output.
	ParseFailure ErrorKind = "parse_failure"
	// LogicalFailure: the output parsed but reported ok=false or
	// carried no items field.
	LogicalFailure ErrorKind = "logical_failure"
)

// InvokeError is a classified scorer failure. All failures are terminal
// for the invocation; retry policy lives with the caller.
type InvokeError struct {
	Kind ErrorKind
	Mode string
	Err  error
}

func (e *InvokeError) Error() string {
	msg := "scorer " + e.Mode + " " + string(e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvokeError) Unwrap() error {
	return e.Err
}

// NewInvokeError builds a classified scorer failure.
func NewInvokeError(kind ErrorKind, mode string, err error) *InvokeError {
	return &InvokeError{Kind: kind, Mode: mode, Err: err}
}

// Scorer is the external ranking capability, one method per mode. Every
// method returns item identifiers in the scorer's own preference order,
// which callers must preserve. Failures are always *InvokeError.
type Scorer interface {
	// Popular returns the globally top-ranked identifiers, at most topN.
	Popular(ctx context.Context, topN int) ([]int64, error)
	// Collaborative returns identifiers ranked for one user by
	// collaborative filtering, at most k.
	Collaborative(ctx context.Context, userID int64, k int) ([]int64, error)
	// Similar returns identifiers ranked by content similarity to the
	// given title, at most k.
	Similar(ctx context.Context, title string, k int) ([]int64, error)
}
