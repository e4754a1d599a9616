// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

/*
recommend_provider.go - Recommendation Engine Data Access

These queries back the recommendation engine in internal/recommend.
The engine works on distinct-track listening histories:

  - UserTracks: the distinct tracks one user has played
  - SimilarUsers: other users sharing at least minShared distinct tracks
  - TracksPlayedBy: distinct tracks played per user, for a set of users
  - TrackDetails: title, primary artist, and popularity per track,
    excluding tracks without a PRIMARY credit
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/tracklore/tracklore/internal/models"
)

// UserTracks returns the distinct track IDs a user has played.
func (db *DB) UserTracks(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT track_id
		FROM listening_events
		WHERE user_id = ?
		ORDER BY track_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user tracks: %w", err)
	}
	defer rows.Close()

	var tracks []string
	for rows.Next() {
		var trackID string
		if err := rows.Scan(&trackID); err != nil {
			return nil, fmt.Errorf("failed to scan track id: %w", err)
		}
		tracks = append(tracks, trackID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user tracks: %w", err)
	}

	return tracks, nil
}

// SimilarUsers returns users who share at least minShared distinct
// played tracks with the given user, with their overlap counts.
func (db *DB) SimilarUsers(ctx context.Context, userID string, minShared int) ([]models.UserOverlap, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT other.user_id, COUNT(DISTINCT other.track_id) AS shared
		FROM listening_events other
		WHERE other.user_id <> ?
		  AND other.track_id IN (
			SELECT DISTINCT track_id FROM listening_events WHERE user_id = ?
		  )
		GROUP BY other.user_id
		HAVING COUNT(DISTINCT other.track_id) >= ?
		ORDER BY other.user_id`, userID, userID, minShared)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar users: %w", err)
	}
	defer rows.Close()

	var overlaps []models.UserOverlap
	for rows.Next() {
		var o models.UserOverlap
		if err := rows.Scan(&o.UserID, &o.SharedTracks); err != nil {
			return nil, fmt.Errorf("failed to scan user overlap: %w", err)
		}
		overlaps = append(overlaps, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user overlaps: %w", err)
	}

	return overlaps, nil
}

// TracksPlayedBy returns the distinct tracks played by each of the
// given users. Users with no events are omitted from the map.
func (db *DB) TracksPlayedBy(ctx context.Context, userIDs []string) (map[string][]string, error) {
	if len(userIDs) == 0 {
		return map[string][]string{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT user_id, track_id
		FROM listening_events
		WHERE user_id IN (%s)
		ORDER BY user_id, track_id`, placeholders)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks played by users: %w", err)
	}
	defer rows.Close()

	played := make(map[string][]string)
	for rows.Next() {
		var userID, trackID string
		if err := rows.Scan(&userID, &trackID); err != nil {
			return nil, fmt.Errorf("failed to scan played track: %w", err)
		}
		played[userID] = append(played[userID], trackID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate played tracks: %w", err)
	}

	return played, nil
}

// TrackDetails returns title, primary artist, and popularity for the
// given tracks. Tracks without a PRIMARY artist credit are omitted so
// they can never appear in recommendation results.
func (db *DB) TrackDetails(ctx context.Context, trackIDs []string) (map[string]models.RecommendedTrack, error) {
	if len(trackIDs) == 0 {
		return map[string]models.RecommendedTrack{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(trackIDs)), ",")
	args := make([]any, len(trackIDs))
	for i, id := range trackIDs {
		args[i] = id
	}

	// When a track has multiple PRIMARY credits, the artist with the
	// lowest id wins, keeping results deterministic.
	query := fmt.Sprintf(`
		SELECT t.id, t.title, arg_min(a.name, a.id), t.popularity
		FROM tracks t
		JOIN track_artists ta ON ta.track_id = t.id AND ta.role = 'PRIMARY'
		JOIN artists a ON a.id = ta.artist_id
		WHERE t.id IN (%s)
		GROUP BY t.id, t.title, t.popularity`, placeholders)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query track details: %w", err)
	}
	defer rows.Close()

	details := make(map[string]models.RecommendedTrack)
	for rows.Next() {
		var rt models.RecommendedTrack
		if err := rows.Scan(&rt.TrackID, &rt.Title, &rt.Artist, &rt.Popularity); err != nil {
			return nil, fmt.Errorf("failed to scan track details: %w", err)
		}
		details[rt.TrackID] = rt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate track details: %w", err)
	}

	return details, nil
}
