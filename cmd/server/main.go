// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

// Package main is the entry point for the Tracklore server.
//
// Tracklore is a self-hosted music listening analytics platform. It
// keeps an append-only log of listening and like events over a catalog
// of users, artists, albums and tracks, maintains per-track popularity
// counters and daily playback statistics, and serves co-listening
// based track recommendations.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, config file and environment (Koanf v2)
//  2. Database: DuckDB with the event log, catalog and stats schema
//  3. Recommendation engine: overlap scoring over the event log
//  4. Supervisor tree: background stats refresher and the HTTP server
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in
// defaults. Commonly used variables:
//
//   - DUCKDB_PATH: DuckDB file path (default /data/tracklore.duckdb)
//   - HTTP_PORT: HTTP port (default 8484)
//   - SEED_DEMO_DATA: seed a small demo catalog
//   - STATS_REFRESH_ENABLED: run the background stats refresher
//   - CONFIG_PATH: explicit config file location
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight requests to complete
// (10s timeout), stops background jobs and closes the database.
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

	"github.com/tracklore/tracklore/internal/api"
	"github.com/tracklore/tracklore/internal/config"
	"github.com/tracklore/tracklore/internal/database"
	"github.com/tracklore/tracklore/internal/logging"
	"github.com/tracklore/tracklore/internal/recommend"
	"github.com/tracklore/tracklore/internal/supervisor"
	"github.com/tracklore/tracklore/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
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
		Int("port", cfg.Server.Port).
		Msg("Starting Tracklore")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedDemoData {
		if err := db.SeedDemoData(context.Background()); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
		logging.Info().Msg("Demo data seeded")
	}

	engine, err := recommend.NewEngine(db, &recommend.Config{
		MinSharedTracks: cfg.Recommend.MinSharedTracks,
		DefaultLimit:    cfg.Recommend.DefaultLimit,
		MaxLimit:        cfg.Recommend.MaxLimit,
		Timeout:         cfg.Recommend.Timeout,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	// Context driving the whole supervisor tree
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog needs an slog.Logger; the adapter bridges to zerolog
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	handler := api.NewHandler(db, engine, cfg)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.Stats.RefreshEnabled {
		tree.AddJobService(services.NewStatsRefreshService(db, cfg.Stats.RefreshInterval, cfg.Stats.DaysBack))
		logging.Info().
			Dur("interval", cfg.Stats.RefreshInterval).
			Int("days_back", cfg.Stats.DaysBack).
			Msg("Stats refresh scheduler added to supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
