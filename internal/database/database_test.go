// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tracklore/tracklore/internal/config"
	"github.com/tracklore/tracklore/internal/models"
)

// testDBSemaphore limits concurrent in-memory DuckDB instances.
// DuckDB CGO calls can exhaust resources when too many tests run
// databases in parallel.
var testDBSemaphore = make(chan struct{}, 4)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:        ":memory:",
		MaxMemory:   "1GB",
		SkipIndexes: true,
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}

// seedCatalog inserts a small catalog used by most tests: four users,
// three artists, and five tracks. t3 deliberately has only a FEATURED
// credit so recommendation queries must exclude it.
func seedCatalog(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	for _, u := range []models.User{
		{ID: "u1", Name: "Ana"},
		{ID: "u2", Name: "Ben"},
		{ID: "u3", Name: "Cleo"},
		{ID: "u4", Name: "Dev"},
		{ID: "u5", Name: "Eli"},
	} {
		if err := db.UpsertUser(ctx, &u); err != nil {
			t.Fatalf("UpsertUser(%s): %v", u.ID, err)
		}
	}

	for _, a := range []models.Artist{
		{ID: "a1", Name: "The Quiet Orbit"},
		{ID: "a2", Name: "Marlow Vane"},
		{ID: "a3", Name: "Glass Meridian"},
	} {
		if err := db.UpsertArtist(ctx, &a); err != nil {
			t.Fatalf("UpsertArtist(%s): %v", a.ID, err)
		}
	}

	for _, tr := range []models.Track{
		{ID: "t1", Title: "Low Tide", DurationMS: 214000},
		{ID: "t2", Title: "Signal Fade", DurationMS: 187000},
		{ID: "t3", Title: "Glasswork", DurationMS: 243000},
		{ID: "t4", Title: "Northern Line", DurationMS: 201000},
		{ID: "t5", Title: "Afterglow", DurationMS: 176000},
	} {
		if err := db.UpsertTrack(ctx, &tr); err != nil {
			t.Fatalf("UpsertTrack(%s): %v", tr.ID, err)
		}
	}

	for _, ta := range []models.TrackArtist{
		{TrackID: "t1", ArtistID: "a1", Role: models.RolePrimary},
		{TrackID: "t2", ArtistID: "a1", Role: models.RolePrimary},
		{TrackID: "t2", ArtistID: "a2", Role: models.RoleFeatured},
		{TrackID: "t3", ArtistID: "a2", Role: models.RoleFeatured},
		{TrackID: "t4", ArtistID: "a2", Role: models.RolePrimary},
		{TrackID: "t5", ArtistID: "a3", Role: models.RolePrimary},
	} {
		if err := db.SetTrackArtist(ctx, &ta); err != nil {
			t.Fatalf("SetTrackArtist(%s/%s): %v", ta.TrackID, ta.ArtistID, err)
		}
	}
}

// recordPlay is a test helper appending one listening event.
func recordPlay(t *testing.T, db *DB, userID, trackID string, playedAt time.Time) int64 {
	t.Helper()
	id, err := db.RecordPlay(context.Background(), &models.ListeningEvent{
		UserID:   userID,
		TrackID:  trackID,
		PlayedAt: playedAt,
		Source:   models.SourceSearch,
		MSPlayed: 60000,
		Device:   models.DeviceWeb,
	})
	if err != nil {
		t.Fatalf("RecordPlay(%s, %s): %v", userID, trackID, err)
	}
	return id
}

func TestNewAndPing(t *testing.T) {
	db := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestGetRecordCounts(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	plays, likes, err := db.GetRecordCounts(ctx)
	if err != nil {
		t.Fatalf("GetRecordCounts: %v", err)
	}
	if plays != 0 || likes != 0 {
		t.Errorf("expected empty log, got plays=%d likes=%d", plays, likes)
	}

	recordPlay(t, db, "u1", "t1", time.Now())
	if err := db.RecordLike(ctx, &models.LikeEvent{UserID: "u1", TrackID: "t1"}); err != nil {
		t.Fatalf("RecordLike: %v", err)
	}

	plays, likes, err = db.GetRecordCounts(ctx)
	if err != nil {
		t.Fatalf("GetRecordCounts: %v", err)
	}
	if plays != 1 || likes != 1 {
		t.Errorf("expected plays=1 likes=1, got plays=%d likes=%d", plays, likes)
	}
}

func TestCreateIndexesExplicit(t *testing.T) {
	db := setupTestDB(t)

	if err := db.CreateIndexes(); err != nil {
		t.Fatalf("CreateIndexes: %v", err)
	}
}

func TestSeedDemoData(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	plays, likes, err := db.GetRecordCounts(ctx)
	if err != nil {
		t.Fatalf("GetRecordCounts: %v", err)
	}
	if plays == 0 || likes == 0 {
		t.Errorf("expected non-empty log after seed, got plays=%d likes=%d", plays, likes)
	}

	// Second seed must be a no-op.
	if err := db.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData (second run): %v", err)
	}
	plays2, _, err := db.GetRecordCounts(ctx)
	if err != nil {
		t.Fatalf("GetRecordCounts: %v", err)
	}
	if plays2 != plays {
		t.Errorf("second seed changed play count: %d -> %d", plays, plays2)
	}

	// Seeded likes must leave popularity counters consistent.
	report, err := db.ReconcilePopularity(ctx)
	if err != nil {
		t.Fatalf("ReconcilePopularity: %v", err)
	}
	if len(report.Mismatches) != 0 {
		t.Errorf("expected consistent counters after seed, got %d mismatches", len(report.Mismatches))
	}
}
