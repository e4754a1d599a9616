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

// RefreshDailyStats recomputes per-track aggregates for one day from
// the event log and upserts them into daily_track_stats. The operation
// is idempotent: running it twice for the same day produces identical
// rows, and event insertion order does not affect the result.
//
// Known limitation: a row written for a track on a day that later ends
// up with zero events is not deleted. It keeps its last written plays
// and unique_listeners values until the day is refreshed again with
// events present.
//
// day must be in YYYY-MM-DD format.
func (db *DB) RefreshDailyStats(ctx context.Context, day string) (int64, error) {
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return 0, &ValidationError{Field: "day", Message: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", day)}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO daily_track_stats (track_id, play_date, plays, unique_listeners)
		SELECT track_id, CAST(played_at AS DATE), COUNT(*), COUNT(DISTINCT user_id)
		FROM listening_events
		WHERE CAST(played_at AS DATE) = CAST(? AS DATE)
		GROUP BY track_id, CAST(played_at AS DATE)
		ON CONFLICT (track_id, play_date) DO UPDATE SET
			plays = EXCLUDED.plays,
			unique_listeners = EXCLUDED.unique_listeners`, day)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh daily stats for %s: %w", day, err)
	}

	tracksUpdated, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return tracksUpdated, nil
}

// GetDailyStats returns stored aggregates for a day, ordered by plays
// descending then track_id ascending. day must be YYYY-MM-DD.
func (db *DB) GetDailyStats(ctx context.Context, day string) ([]models.DailyTrackStat, error) {
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return nil, &ValidationError{Field: "day", Message: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", day)}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT track_id, CAST(play_date AS VARCHAR), plays, unique_listeners
		FROM daily_track_stats
		WHERE play_date = CAST(? AS DATE)
		ORDER BY plays DESC, track_id`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DailyTrackStat
	for rows.Next() {
		var s models.DailyTrackStat
		if err := rows.Scan(&s.TrackID, &s.PlayDate, &s.Plays, &s.UniqueListeners); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily stats: %w", err)
	}

	return stats, nil
}

// GetTrackDailyStat returns one stored (track, day) row, or wrapped
// sql.ErrNoRows if absent.
func (db *DB) GetTrackDailyStat(ctx context.Context, trackID, day string) (*models.DailyTrackStat, error) {
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return nil, &ValidationError{Field: "day", Message: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", day)}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var s models.DailyTrackStat
	err := db.conn.QueryRowContext(ctx, `
		SELECT track_id, CAST(play_date AS VARCHAR), plays, unique_listeners
		FROM daily_track_stats
		WHERE track_id = ? AND play_date = CAST(? AS DATE)`, trackID, day).
		Scan(&s.TrackID, &s.PlayDate, &s.Plays, &s.UniqueListeners)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stat for track %s on %s: %w", trackID, day, err)
	}
	return &s, nil
}
