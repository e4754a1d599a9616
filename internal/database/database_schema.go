// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

/*
database_schema.go - Database Schema Management

This file manages the DuckDB database schema including table creation
and index management for query performance.

Tables:
  - users, artists, albums, tracks: the music catalog
  - track_artists: artist credits per track with a role (PRIMARY, FEATURED)
  - playlists, playlist_tracks: user playlists
  - listening_events: append-only playback log, keyed by listen_id
  - like_events: append-only like log, one row per (user, track)
  - daily_track_stats: derived per-track per-day aggregates

Index Strategy:
Indexes cover the event log access patterns (per-user history, per-track
history, time-windowed aggregation) and the PRIMARY credit join used by
the recommendation engine.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := db.getTableCreationQueries()

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func (db *DB) getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS artists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS albums (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			release_date DATE
		);`,

		// popularity is a derived counter maintained by RecordLike and
		// repaired by ReconcilePopularity. It is never written directly.
		`CREATE TABLE IF NOT EXISTS tracks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			album_id TEXT,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			popularity BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS track_artists (
			track_id TEXT NOT NULL,
			artist_id TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('PRIMARY', 'FEATURED')),
			PRIMARY KEY (track_id, artist_id, role)
		);`,

		`CREATE TABLE IF NOT EXISTS playlists (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS playlist_tracks (
			playlist_id TEXT NOT NULL,
			track_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (playlist_id, track_id)
		);`,

		// Append-only playback log. listen_id is assigned inside the
		// insert transaction; rows are never updated or deleted.
		`CREATE TABLE IF NOT EXISTS listening_events (
			listen_id BIGINT PRIMARY KEY,
			user_id TEXT NOT NULL,
			track_id TEXT NOT NULL,
			played_at TIMESTAMP NOT NULL,
			source TEXT NOT NULL CHECK (source IN ('SEARCH', 'PLAYLIST', 'ALBUM', 'RADIO', 'RECS')),
			ms_played BIGINT NOT NULL CHECK (ms_played >= 0),
			device TEXT NOT NULL CHECK (device IN ('MOBILE', 'DESKTOP', 'WEB', 'TV'))
		);`,

		// The primary key enforces at most one like per (user, track).
		`CREATE TABLE IF NOT EXISTS like_events (
			user_id TEXT NOT NULL,
			track_id TEXT NOT NULL,
			liked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, track_id)
		);`,

		// Derived aggregates, overwritten by RefreshDailyStats. Rows for
		// days that later end up with zero events are not deleted; they
		// keep their last written values until the day is refreshed.
		`CREATE TABLE IF NOT EXISTS daily_track_stats (
			track_id TEXT NOT NULL,
			play_date DATE NOT NULL,
			plays BIGINT NOT NULL,
			unique_listeners BIGINT NOT NULL,
			PRIMARY KEY (track_id, play_date)
		);`,
	}
}

// createIndexes creates all database indexes unless skipped by config.
func (db *DB) createIndexes() error {
	// Skip index creation for tests to avoid CGO resource exhaustion
	// Tests that specifically need indexes can call CreateIndexes() explicitly
	if db.cfg != nil && db.cfg.SkipIndexes {
		return nil
	}

	return db.doCreateIndexes()
}

// CreateIndexes creates all database indexes.
// This is exposed for tests that specifically need indexes.
// Most tests should use SkipIndexes: true for fast setup.
func (db *DB) CreateIndexes() error {
	return db.doCreateIndexes()
}

// doCreateIndexes is the internal implementation that creates all indexes.
func (db *DB) doCreateIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := db.getIndexQueries()

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// getIndexQueries returns index creation SQL statements
func (db *DB) getIndexQueries() []string {
	return []string{
		// Event log indexes
		`CREATE INDEX IF NOT EXISTS idx_events_user_id ON listening_events(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_track_id ON listening_events(track_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_played_at ON listening_events(played_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_track ON listening_events(user_id, track_id);`,
		// Like log indexes
		`CREATE INDEX IF NOT EXISTS idx_likes_track_id ON like_events(track_id);`,
		// Catalog indexes
		`CREATE INDEX IF NOT EXISTS idx_track_artists_artist ON track_artists(artist_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album_id);`,
		`CREATE INDEX IF NOT EXISTS idx_playlist_tracks_track ON playlist_tracks(track_id);`,
		// Stats indexes
		`CREATE INDEX IF NOT EXISTS idx_daily_stats_date ON daily_track_stats(play_date DESC);`,
	}
}
