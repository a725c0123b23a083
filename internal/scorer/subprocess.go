// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package scorer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/cinelogue/cinelogue/internal/config"
	"github.com/cinelogue/cinelogue/internal/logging"
	"github.com/cinelogue/cinelogue/internal/metrics"
)

// cliOutput is the structured document the scorer writes to stdout.
// Items carry the movie identifier under one of several historical field
// names; scoreItem normalizes them.
type cliOutput struct {
	OK    bool        `json:"ok"`
	Items []scoreItem `json:"items"`
	Error string      `json:"error,omitempty"`
}

type scoreItem struct {
	ID       json.Number `json:"id"`
	MovieID  json.Number `json:"movieId"`
	MovieID2 json.Number `json:"movie_id"`
}

// identifier returns the item's movie id, accepting any of the
// equivalent field names. Returns 0 when no field parses as a positive
// integer; such items are dropped.
func (it scoreItem) identifier() int64 {
	for _, n := range []json.Number{it.ID, it.MovieID, it.MovieID2} {
		if n == "" {
			continue
		}
		id, err := strconv.ParseInt(n.String(), 10, 64)
		if err == nil && id > 0 {
			return id
		}
	}
	return 0
}

// CLIScorer invokes the ranking computation as a subprocess. A circuit
// breaker fronts the process spawn: once the script starts failing
// consecutively, further invocations fail fast as ProcessFailure until
// the cooldown elapses.
type CLIScorer struct {
	cfg *config.ScorerConfig
	cb  *gobreaker.CircuitBreaker[[]int64]
}

// NewCLIScorer creates the production subprocess-backed scorer.
func NewCLIScorer(cfg *config.ScorerConfig) *CLIScorer {
	cb := gobreaker.NewCircuitBreaker[[]int64](gobreaker.Settings{
		Name:    "scorer-cli",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("scorer circuit breaker state change")
		},
	})
	return &CLIScorer{cfg: cfg, cb: cb}
}

// Popular implements Scorer.
func (s *CLIScorer) Popular(ctx context.Context, topN int) ([]int64, error) {
	return s.invoke(ctx, ModePopular, "--top-n", strconv.Itoa(topN))
}

// Collaborative implements Scorer.
func (s *CLIScorer) Collaborative(ctx context.Context, userID int64, k int) ([]int64, error) {
	return s.invoke(ctx, ModeSVD,
		"--user-id", strconv.FormatInt(userID, 10),
		"--k", strconv.Itoa(k))
}

// Similar implements Scorer.
func (s *CLIScorer) Similar(ctx context.Context, title string, k int) ([]int64, error) {
	return s.invoke(ctx, ModeOverview,
		"--title", title,
		"--k", strconv.Itoa(k))
}

// invoke runs one subprocess call through the breaker and classifies the
// outcome. The subprocess gets its own timeout-bound context rather than
// the caller's: a result computed after the caller disconnects is still
// worth caching, so only the wall-clock bound cancels it.
func (s *CLIScorer) invoke(ctx context.Context, mode string, modeArgs ...string) ([]int64, error) {
	start := time.Now()

	ids, err := s.cb.Execute(func() ([]int64, error) {
		return s.run(ctx, mode, modeArgs)
	})
	if err != nil {
		var invokeErr *InvokeError
		if !errors.As(err, &invokeErr) {
			// Breaker rejections (open circuit, half-open overflow)
			// surface as process failures: the script is effectively
			// unavailable.
			invokeErr = NewInvokeError(ProcessFailure, mode, err)
		}
		metrics.RecordScorerInvocation(mode, string(invokeErr.Kind), time.Since(start))
		return nil, invokeErr
	}

	metrics.RecordScorerInvocation(mode, "ok", time.Since(start))
	return ids, nil
}

func (s *CLIScorer) run(ctx context.Context, mode string, modeArgs []string) ([]int64, error) {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	args := append([]string{s.cfg.Script, "--mode", mode, "--data-dir", s.cfg.DataDir}, modeArgs...)
	cmd := exec.CommandContext(runCtx, s.cfg.Python, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, NewInvokeError(ProcessFailure, mode,
				fmt.Errorf("timed out after %s", s.cfg.Timeout))
		}
		logging.Warn().
			Str("mode", mode).
			Str("stderr", stderr.String()).
			Err(err).
			Msg("scorer process failed")
		return nil, NewInvokeError(ProcessFailure, mode, err)
	}

	var out cliOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, NewInvokeError(ParseFailure, mode, err)
	}
	if !out.OK {
		msg := out.Error
		if msg == "" {
			msg = "scorer reported failure"
		}
		return nil, NewInvokeError(LogicalFailure, mode, errors.New(msg))
	}
	if out.Items == nil {
		return nil, NewInvokeError(LogicalFailure, mode, errors.New("missing items field"))
	}

	ids := make([]int64, 0, len(out.Items))
	for _, item := range out.Items {
		if id := item.identifier(); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
