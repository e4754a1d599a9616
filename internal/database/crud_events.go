// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tracklore/tracklore/internal/models"
)

// EventFilter narrows QueryEvents results. Zero values mean no filter.
type EventFilter struct {
	UserID  string
	TrackID string
	Since   *time.Time
	Until   *time.Time
	Limit   int
	Offset  int
}

// RecordPlay appends a listening event to the log and returns the
// assigned listen_id. The id is computed as MAX(listen_id)+1 inside the
// insert transaction so concurrent appends cannot collide.
func (db *DB) RecordPlay(ctx context.Context, ev *models.ListeningEvent) (int64, error) {
	if ev.UserID == "" {
		return 0, &ValidationError{Field: "user_id", Message: "must not be empty"}
	}
	if ev.TrackID == "" {
		return 0, &ValidationError{Field: "track_id", Message: "must not be empty"}
	}
	if !models.ValidSource(ev.Source) {
		return 0, &ValidationError{Field: "source", Message: fmt.Sprintf("unknown source %q", ev.Source)}
	}
	if !models.ValidDevice(ev.Device) {
		return 0, &ValidationError{Field: "device", Message: fmt.Sprintf("unknown device %q", ev.Device)}
	}
	if ev.MSPlayed < 0 {
		return 0, &ValidationError{Field: "ms_played", Message: "must not be negative"}
	}

	playedAt := ev.PlayedAt
	if playedAt.IsZero() {
		playedAt = time.Now().UTC()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Referential checks run inside the same transaction as the insert
	var userExists, trackExists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = ?), EXISTS(SELECT 1 FROM tracks WHERE id = ?)",
		ev.UserID, ev.TrackID).Scan(&userExists, &trackExists)
	if err != nil {
		return 0, fmt.Errorf("failed to check user and track: %w", err)
	}
	if !userExists {
		return 0, &ValidationError{Field: "user_id", Message: fmt.Sprintf("unknown user %q", ev.UserID)}
	}
	if !trackExists {
		return 0, &ValidationError{Field: "track_id", Message: fmt.Sprintf("unknown track %q", ev.TrackID)}
	}

	var listenID int64
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(listen_id), 0) + 1 FROM listening_events").Scan(&listenID)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate listen_id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO listening_events (listen_id, user_id, track_id, played_at, source, ms_played, device)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		listenID, ev.UserID, ev.TrackID, playedAt, ev.Source, ev.MSPlayed, ev.Device)
	if err != nil {
		return 0, fmt.Errorf("failed to insert listening event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit listening event: %w", err)
	}

	ev.ListenID = listenID
	ev.PlayedAt = playedAt
	return listenID, nil
}

// QueryEvents returns listening events matching the filter, ordered by
// listen_id ascending.
func (db *DB) QueryEvents(ctx context.Context, filter EventFilter) ([]models.ListeningEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT listen_id, user_id, track_id, played_at, source, ms_played, device
		FROM listening_events
		WHERE 1=1`
	var args []any

	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.TrackID != "" {
		query += " AND track_id = ?"
		args = append(args, filter.TrackID)
	}
	if filter.Since != nil {
		query += " AND played_at >= ?"
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		query += " AND played_at < ?"
		args = append(args, *filter.Until)
	}

	query += " ORDER BY listen_id"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listening events: %w", err)
	}
	defer rows.Close()

	var events []models.ListeningEvent
	for rows.Next() {
		var ev models.ListeningEvent
		if err := rows.Scan(&ev.ListenID, &ev.UserID, &ev.TrackID, &ev.PlayedAt, &ev.Source, &ev.MSPlayed, &ev.Device); err != nil {
			return nil, fmt.Errorf("failed to scan listening event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listening events: %w", err)
	}

	return events, nil
}

// CountEvents returns the total number of listening events.
func (db *DB) CountEvents(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int64
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM listening_events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count listening events: %w", err)
	}
	return count, nil
}
