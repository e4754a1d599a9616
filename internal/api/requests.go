// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package api

import "time"

// RecordPlayRequest is the request body for POST /api/v1/events/plays.
// PlayedAt is optional; when omitted the server assigns the current time.
type RecordPlayRequest struct {
	UserID   string     `json:"user_id" validate:"required"`
	TrackID  string     `json:"track_id" validate:"required"`
	Source   string     `json:"source" validate:"required,playsource"`
	Device   string     `json:"device" validate:"required,playdevice"`
	MSPlayed int64      `json:"ms_played" validate:"min=0"`
	PlayedAt *time.Time `json:"played_at,omitempty"`
}

// RecordLikeRequest is the request body for POST /api/v1/events/likes.
type RecordLikeRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	TrackID string `json:"track_id" validate:"required"`
}

// RecordPlayResponse reports the assigned append-log position.
type RecordPlayResponse struct {
	ListenID int64     `json:"listen_id"`
	PlayedAt time.Time `json:"played_at"`
}

// RecordLikeResponse reports the updated popularity after a like.
type RecordLikeResponse struct {
	UserID     string `json:"user_id"`
	TrackID    string `json:"track_id"`
	Popularity int64  `json:"popularity"`
}

// RefreshStatsResponse reports the outcome of a daily stats refresh.
type RefreshStatsResponse struct {
	Day           string `json:"day"`
	TracksUpdated int64  `json:"tracks_updated"`
}
