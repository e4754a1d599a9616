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

// RecordLike inserts a like event and increments the liked track's
// popularity counter in the same transaction. A repeated like for the
// same (user, track) pair returns ErrDuplicateLike and leaves the
// counter untouched.
func (db *DB) RecordLike(ctx context.Context, like *models.LikeEvent) error {
	if like.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "must not be empty"}
	}
	if like.TrackID == "" {
		return &ValidationError{Field: "track_id", Message: "must not be empty"}
	}

	likedAt := like.LikedAt
	if likedAt.IsZero() {
		likedAt = time.Now().UTC()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var userExists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", like.UserID).Scan(&userExists)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !userExists {
		return &ValidationError{Field: "user_id", Message: fmt.Sprintf("unknown user %q", like.UserID)}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO like_events (user_id, track_id, liked_at)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`,
		like.UserID, like.TrackID, likedAt)
	if err != nil {
		return fmt.Errorf("failed to insert like event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDuplicateLike
	}

	res, err = tx.ExecContext(ctx,
		"UPDATE tracks SET popularity = popularity + 1 WHERE id = ?", like.TrackID)
	if err != nil {
		return fmt.Errorf("failed to increment popularity: %w", err)
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return &ValidationError{Field: "track_id", Message: fmt.Sprintf("track %s not found", like.TrackID)}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit like event: %w", err)
	}

	like.LikedAt = likedAt
	return nil
}

// GetLikeCount returns the number of like events for a track.
func (db *DB) GetLikeCount(ctx context.Context, trackID string) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int64
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM like_events WHERE track_id = ?", trackID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
