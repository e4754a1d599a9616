// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

// Package logging provides centralized zerolog-based structured logging
// for Tracklore.
//
// The package exposes a global logger configured once at startup, with
// JSON output for production and console output for development. All
// components log through this package so that output format, level, and
// field naming stay consistent across the process.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("track_id", id).Msg("Play recorded")
//	logging.Error().Err(err).Msg("Refresh failed")
//
// # Context-Aware Logging
//
// HTTP middleware stores a request ID and correlation ID in the request
// context. Handlers and services retrieve a context-bound logger:
//
//	logging.Ctx(ctx).Info().Str("user_id", uid).Msg("Recommendation served")
//
// # slog Adapter
//
// An slog adapter bridges zerolog to libraries that require *slog.Logger,
// such as sutureslog used by the supervisor tree:
//
//	slogger := logging.NewSlogLogger()
//	handler := &sutureslog.Handler{Logger: slogger}
//
// Always terminate log chains with .Msg() or .Send(); a chain without a
// terminator is never emitted.
package logging
