// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package models

// RecommendedTrack is one ranked recommendation result. Artist is the
// primary credited artist for the track; tracks without a primary
// credit are never recommended.
type RecommendedTrack struct {
	TrackID    string `json:"track_id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Score      int64  `json:"score"`
	Popularity int64  `json:"popularity"`
}

// UserOverlap reports how many distinct tracks another user shares
// with the user a recommendation is being computed for.
type UserOverlap struct {
	UserID       string `json:"user_id"`
	SharedTracks int64  `json:"shared_tracks"`
}
