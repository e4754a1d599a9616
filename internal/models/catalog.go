// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package models

import "time"

// Artist role values for track credits. Only tracks with a PRIMARY
// credit are eligible for recommendation results.
const (
	RolePrimary  = "PRIMARY"
	RoleFeatured = "FEATURED"
)

// User is a catalog listener account. Tracklore consumes users; it never
// creates or deletes them.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Artist is a catalog artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is a catalog album.
type Album struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}

// Track is a catalog track. Popularity is a derived counter equal to the
// number of like events recorded for the track; it is maintained by the
// like write path and repaired by reconciliation, never edited directly.
type Track struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	AlbumID    *string   `json:"album_id,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Popularity int64     `json:"popularity"`
	CreatedAt  time.Time `json:"created_at"`
}

// TrackArtist links a track to an artist with a role credit.
// A track has at most one PRIMARY credit.
type TrackArtist struct {
	TrackID  string `json:"track_id"`
	ArtistID string `json:"artist_id"`
	Role     string `json:"role"`
}

// Playlist is a catalog playlist.
type Playlist struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
}

// PlaylistTrack is an ordered playlist entry.
type PlaylistTrack struct {
	PlaylistID string `json:"playlist_id"`
	TrackID    string `json:"track_id"`
	Position   int    `json:"position"`
}
