// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

// Package main is the entry point for the Cinelogue server.
//
// Cinelogue is a movie cataloguing and recommendation service: users
// browse the catalog, track titles with a status and score, and receive
// popularity-based, genre-based, and collaborative-filtering
// recommendations. The expensive ranking computation runs as an external
// subprocess; computed lists are cached and refreshed in the background
// when they go stale.
//
// Startup order:
//
//  1. Configuration: koanf v2 layering defaults, config.yaml, env vars
//  2. Logging: zerolog, json or console format
//  3. Database: DuckDB with the catalog, tracked lists, and the
//     recommendation cache
//  4. Scorer: subprocess gateway behind a circuit breaker
//  5. Recommendation coordinator
//  6. HTTP server: chi router, graceful shutdown on SIGINT/SIGTERM
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinelogue/cinelogue/internal/api"
	"github.com/cinelogue/cinelogue/internal/config"
	"github.com/cinelogue/cinelogue/internal/database"
	"github.com/cinelogue/cinelogue/internal/logging"
	"github.com/cinelogue/cinelogue/internal/recommend"
	"github.com/cinelogue/cinelogue/internal/scorer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("scorer_script", cfg.Scorer.Script).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	cliScorer := scorer.NewCLIScorer(&cfg.Scorer)
	coordinator := recommend.NewCoordinator(db, cliScorer, &cfg.Recommend)

	handler := api.NewHandler(db, coordinator, cfg)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, &cfg.Server),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("Starting HTTP server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Let in-flight background refreshes finish so their results land in
	// the cache before the database closes.
	coordinator.Wait()
	logging.Info().Msg("Shutdown complete")
}
