// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tracklore/tracklore/internal/models"
)

// UpsertUser inserts or updates a catalog user.
func (db *DB) UpsertUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		return &ValidationError{Field: "user_id", Message: "must not be empty"}
	}
	if u.Name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (id, name, email)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email`,
		u.ID, u.Name, u.Email)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// UpsertArtist inserts or updates an artist.
func (db *DB) UpsertArtist(ctx context.Context, a *models.Artist) error {
	if a.ID == "" {
		return &ValidationError{Field: "artist_id", Message: "must not be empty"}
	}
	if a.Name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO artists (id, name)
		VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		a.ID, a.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert artist: %w", err)
	}
	return nil
}

// UpsertAlbum inserts or updates an album.
func (db *DB) UpsertAlbum(ctx context.Context, a *models.Album) error {
	if a.ID == "" {
		return &ValidationError{Field: "album_id", Message: "must not be empty"}
	}
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO albums (id, title, release_date)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, release_date = EXCLUDED.release_date`,
		a.ID, a.Title, a.ReleaseDate)
	if err != nil {
		return fmt.Errorf("failed to upsert album: %w", err)
	}
	return nil
}

// UpsertTrack inserts or updates a track. The popularity counter is
// never written here: it is maintained by RecordLike and repaired by
// ReconcilePopularity.
func (db *DB) UpsertTrack(ctx context.Context, t *models.Track) error {
	if t.ID == "" {
		return &ValidationError{Field: "track_id", Message: "must not be empty"}
	}
	if t.Title == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if t.DurationMS < 0 {
		return &ValidationError{Field: "duration_ms", Message: "must not be negative"}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO tracks (id, title, album_id, duration_ms)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			album_id = EXCLUDED.album_id,
			duration_ms = EXCLUDED.duration_ms`,
		t.ID, t.Title, t.AlbumID, t.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to upsert track: %w", err)
	}
	return nil
}

// SetTrackArtist records an artist credit on a track.
func (db *DB) SetTrackArtist(ctx context.Context, ta *models.TrackArtist) error {
	if ta.TrackID == "" {
		return &ValidationError{Field: "track_id", Message: "must not be empty"}
	}
	if ta.ArtistID == "" {
		return &ValidationError{Field: "artist_id", Message: "must not be empty"}
	}
	if ta.Role != models.RolePrimary && ta.Role != models.RoleFeatured {
		return &ValidationError{Field: "role", Message: "must be PRIMARY or FEATURED"}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO track_artists (track_id, artist_id, role)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`,
		ta.TrackID, ta.ArtistID, ta.Role)
	if err != nil {
		return fmt.Errorf("failed to set track artist: %w", err)
	}
	return nil
}

// UpsertPlaylist inserts or updates a playlist.
func (db *DB) UpsertPlaylist(ctx context.Context, p *models.Playlist) error {
	if p.ID == "" {
		return &ValidationError{Field: "playlist_id", Message: "must not be empty"}
	}
	if p.OwnerID == "" {
		return &ValidationError{Field: "owner_id", Message: "must not be empty"}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO playlists (id, owner_id, name)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET owner_id = EXCLUDED.owner_id, name = EXCLUDED.name`,
		p.ID, p.OwnerID, p.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert playlist: %w", err)
	}
	return nil
}

// AddPlaylistTrack appends a track to a playlist at the given position.
func (db *DB) AddPlaylistTrack(ctx context.Context, pt *models.PlaylistTrack) error {
	if pt.PlaylistID == "" {
		return &ValidationError{Field: "playlist_id", Message: "must not be empty"}
	}
	if pt.TrackID == "" {
		return &ValidationError{Field: "track_id", Message: "must not be empty"}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO playlist_tracks (playlist_id, track_id, position)
		VALUES (?, ?, ?)
		ON CONFLICT (playlist_id, track_id) DO UPDATE SET position = EXCLUDED.position`,
		pt.PlaylistID, pt.TrackID, pt.Position)
	if err != nil {
		return fmt.Errorf("failed to add playlist track: %w", err)
	}
	return nil
}

// GetTrack retrieves a single track by ID. Returns sql.ErrNoRows
// wrapped if the track does not exist.
func (db *DB) GetTrack(ctx context.Context, trackID string) (*models.Track, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var t models.Track
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, title, album_id, duration_ms, popularity, created_at
		FROM tracks
		WHERE id = ?`, trackID).
		Scan(&t.ID, &t.Title, &t.AlbumID, &t.DurationMS, &t.Popularity, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", trackID, err)
	}
	return &t, nil
}

// TrackExists reports whether a track is present in the catalog.
func (db *DB) TrackExists(ctx context.Context, trackID string) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var exists bool
	err := db.conn.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM tracks WHERE id = ?)", trackID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check track existence: %w", err)
	}
	return exists, nil
}

// UserExists reports whether a user is present in the catalog.
func (db *DB) UserExists(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var exists bool
	err := db.conn.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)", userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// GetPrimaryArtist returns the name of the PRIMARY credited artist for
// a track, or sql.ErrNoRows wrapped if the track has no PRIMARY credit.
func (db *DB) GetPrimaryArtist(ctx context.Context, trackID string) (string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var name string
	err := db.conn.QueryRowContext(ctx, `
		SELECT a.name
		FROM track_artists ta
		JOIN artists a ON a.id = ta.artist_id
		WHERE ta.track_id = ? AND ta.role = 'PRIMARY'
		ORDER BY a.id
		LIMIT 1`, trackID).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("track %s has no primary artist: %w", trackID, err)
		}
		return "", fmt.Errorf("failed to get primary artist: %w", err)
	}
	return name, nil
}
