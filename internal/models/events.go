// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package models

import "time"

// Playback source values. A listening event records where playback was
// initiated from.
const (
	SourceSearch   = "SEARCH"
	SourcePlaylist = "PLAYLIST"
	SourceAlbum    = "ALBUM"
	SourceRadio    = "RADIO"
	SourceRecs     = "RECS"
)

// Playback device values.
const (
	DeviceMobile  = "MOBILE"
	DeviceDesktop = "DESKTOP"
	DeviceWeb     = "WEB"
	DeviceTV      = "TV"
)

// ValidSource reports whether s is a known playback source.
func ValidSource(s string) bool {
	switch s {
	case SourceSearch, SourcePlaylist, SourceAlbum, SourceRadio, SourceRecs:
		return true
	}
	return false
}

// ValidDevice reports whether d is a known playback device.
func ValidDevice(d string) bool {
	switch d {
	case DeviceMobile, DeviceDesktop, DeviceWeb, DeviceTV:
		return true
	}
	return false
}

// ListeningEvent is one immutable playback record in the append-only
// event log. ListenID is a monotonically increasing identifier assigned
// at insert time; events are never updated or deleted.
type ListeningEvent struct {
	ListenID int64     `json:"listen_id"`
	UserID   string    `json:"user_id"`
	TrackID  string    `json:"track_id"`
	PlayedAt time.Time `json:"played_at"`
	Source   string    `json:"source"`
	MSPlayed int64     `json:"ms_played"`
	Device   string    `json:"device"`
}

// LikeEvent is one immutable like record. A user can like a track at
// most once; the (UserID, TrackID) pair is unique.
type LikeEvent struct {
	UserID  string    `json:"user_id"`
	TrackID string    `json:"track_id"`
	LikedAt time.Time `json:"liked_at"`
}
