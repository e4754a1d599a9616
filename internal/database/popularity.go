// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package database

import (
	"context"
	"fmt"

	"github.com/tracklore/tracklore/internal/models"
)

// ReconcilePopularity recomputes every track's popularity from the like
// log and repairs any counters that have drifted. The like log is the
// source of truth; stored counters are overwritten, never the log.
// All repairs happen in a single transaction.
func (db *DB) ReconcilePopularity(ctx context.Context) (*models.ConsistencyReport, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT t.id, t.popularity, COUNT(l.track_id)
		FROM tracks t
		LEFT JOIN like_events l ON l.track_id = t.id
		GROUP BY t.id, t.popularity
		ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query popularity counts: %w", err)
	}

	report := &models.ConsistencyReport{Mismatches: []models.PopularityMismatch{}}
	for rows.Next() {
		var trackID string
		var stored, actual int64
		if err := rows.Scan(&trackID, &stored, &actual); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan popularity row: %w", err)
		}
		report.TracksChecked++
		if stored != actual {
			report.Mismatches = append(report.Mismatches, models.PopularityMismatch{
				TrackID: trackID,
				Stored:  stored,
				Actual:  actual,
			})
		}
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, fmt.Errorf("failed to iterate popularity rows: %w", err)
	}
	closeQuietly(rows)

	for _, m := range report.Mismatches {
		if _, err := tx.ExecContext(ctx,
			"UPDATE tracks SET popularity = ? WHERE id = ?", m.Actual, m.TrackID); err != nil {
			return nil, fmt.Errorf("failed to repair popularity for track %s: %w", m.TrackID, err)
		}
		report.Repaired++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit popularity repairs: %w", err)
	}

	return report, nil
}

// VerifyPopularity checks a single track's stored popularity against
// the like log. Returns a *ConsistencyError if the counter has drifted.
func (db *DB) VerifyPopularity(ctx context.Context, trackID string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var stored, actual int64
	err := db.conn.QueryRowContext(ctx, `
		SELECT t.popularity, COUNT(l.track_id)
		FROM tracks t
		LEFT JOIN like_events l ON l.track_id = t.id
		WHERE t.id = ?
		GROUP BY t.popularity`, trackID).Scan(&stored, &actual)
	if err != nil {
		return fmt.Errorf("failed to verify popularity for track %s: %w", trackID, err)
	}

	if stored != actual {
		return &ConsistencyError{TrackID: trackID, Stored: stored, Actual: actual}
	}
	return nil
}
