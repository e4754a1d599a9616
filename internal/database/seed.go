// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tracklore/tracklore/internal/logging"
	"github.com/tracklore/tracklore/internal/models"
)

// SeedDemoData populates the catalog and event log with a small demo
// dataset for local development. It is idempotent: catalog rows are
// upserted and duplicate likes are ignored. Seeding is skipped when the
// event log already has entries.
func (db *DB) SeedDemoData(ctx context.Context) error {
	count, err := db.CountEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to check event count: %w", err)
	}
	if count > 0 {
		logging.Debug().Int64("events", count).Msg("Event log not empty, skipping demo seed")
		return nil
	}

	logging.Info().Msg("Seeding demo data")

	users := []models.User{
		{ID: "u1", Name: "Ana", Email: "ana@example.com"},
		{ID: "u2", Name: "Ben", Email: "ben@example.com"},
		{ID: "u3", Name: "Cleo", Email: "cleo@example.com"},
		{ID: "u4", Name: "Dev", Email: "dev@example.com"},
	}
	for i := range users {
		if err := db.UpsertUser(ctx, &users[i]); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", users[i].ID, err)
		}
	}

	artists := []models.Artist{
		{ID: "a1", Name: "The Quiet Orbit"},
		{ID: "a2", Name: "Marlow Vane"},
		{ID: "a3", Name: "Glass Meridian"},
	}
	for i := range artists {
		if err := db.UpsertArtist(ctx, &artists[i]); err != nil {
			return fmt.Errorf("failed to seed artist %s: %w", artists[i].ID, err)
		}
	}

	albumID := "al1"
	album := models.Album{ID: albumID, Title: "Night Signals"}
	if err := db.UpsertAlbum(ctx, &album); err != nil {
		return fmt.Errorf("failed to seed album: %w", err)
	}

	tracks := []models.Track{
		{ID: "t1", Title: "Low Tide", AlbumID: &albumID, DurationMS: 214000},
		{ID: "t2", Title: "Signal Fade", AlbumID: &albumID, DurationMS: 187000},
		{ID: "t3", Title: "Glasswork", DurationMS: 243000},
		{ID: "t4", Title: "Northern Line", DurationMS: 201000},
		{ID: "t5", Title: "Afterglow", DurationMS: 176000},
	}
	for i := range tracks {
		if err := db.UpsertTrack(ctx, &tracks[i]); err != nil {
			return fmt.Errorf("failed to seed track %s: %w", tracks[i].ID, err)
		}
	}

	credits := []models.TrackArtist{
		{TrackID: "t1", ArtistID: "a1", Role: models.RolePrimary},
		{TrackID: "t2", ArtistID: "a1", Role: models.RolePrimary},
		{TrackID: "t2", ArtistID: "a2", Role: models.RoleFeatured},
		{TrackID: "t3", ArtistID: "a3", Role: models.RolePrimary},
		{TrackID: "t4", ArtistID: "a2", Role: models.RolePrimary},
		{TrackID: "t5", ArtistID: "a3", Role: models.RolePrimary},
	}
	for i := range credits {
		if err := db.SetTrackArtist(ctx, &credits[i]); err != nil {
			return fmt.Errorf("failed to seed track artist: %w", err)
		}
	}

	playlist := models.Playlist{ID: "p1", OwnerID: "u1", Name: "Late Shift"}
	if err := db.UpsertPlaylist(ctx, &playlist); err != nil {
		return fmt.Errorf("failed to seed playlist: %w", err)
	}
	for i, trackID := range []string{"t1", "t3", "t5"} {
		pt := models.PlaylistTrack{PlaylistID: "p1", TrackID: trackID, Position: i + 1}
		if err := db.AddPlaylistTrack(ctx, &pt); err != nil {
			return fmt.Errorf("failed to seed playlist track: %w", err)
		}
	}

	base := time.Now().UTC().AddDate(0, 0, -3)
	plays := []models.ListeningEvent{
		{UserID: "u1", TrackID: "t1", PlayedAt: base, Source: models.SourceSearch, MSPlayed: 214000, Device: models.DeviceMobile},
		{UserID: "u1", TrackID: "t2", PlayedAt: base.Add(time.Hour), Source: models.SourceAlbum, MSPlayed: 187000, Device: models.DeviceMobile},
		{UserID: "u2", TrackID: "t1", PlayedAt: base.Add(2 * time.Hour), Source: models.SourcePlaylist, MSPlayed: 120000, Device: models.DeviceWeb},
		{UserID: "u2", TrackID: "t2", PlayedAt: base.Add(3 * time.Hour), Source: models.SourceRadio, MSPlayed: 187000, Device: models.DeviceWeb},
		{UserID: "u2", TrackID: "t3", PlayedAt: base.Add(4 * time.Hour), Source: models.SourceSearch, MSPlayed: 243000, Device: models.DeviceDesktop},
		{UserID: "u3", TrackID: "t3", PlayedAt: base.Add(26 * time.Hour), Source: models.SourceRecs, MSPlayed: 200000, Device: models.DeviceTV},
		{UserID: "u3", TrackID: "t4", PlayedAt: base.Add(27 * time.Hour), Source: models.SourceRadio, MSPlayed: 201000, Device: models.DeviceTV},
		{UserID: "u4", TrackID: "t5", PlayedAt: base.Add(48 * time.Hour), Source: models.SourcePlaylist, MSPlayed: 176000, Device: models.DeviceMobile},
	}
	for i := range plays {
		if _, err := db.RecordPlay(ctx, &plays[i]); err != nil {
			return fmt.Errorf("failed to seed listening event: %w", err)
		}
	}

	likes := []models.LikeEvent{
		{UserID: "u1", TrackID: "t1"},
		{UserID: "u2", TrackID: "t1"},
		{UserID: "u2", TrackID: "t3"},
		{UserID: "u3", TrackID: "t3"},
		{UserID: "u4", TrackID: "t5"},
	}
	for i := range likes {
		if err := db.RecordLike(ctx, &likes[i]); err != nil && !errors.Is(err, ErrDuplicateLike) {
			return fmt.Errorf("failed to seed like event: %w", err)
		}
	}

	logging.Info().
		Int("users", len(users)).
		Int("tracks", len(tracks)).
		Int("plays", len(plays)).
		Int("likes", len(likes)).
		Msg("Demo data seeded")

	return nil
}
