// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/tracklore/tracklore/internal/models"
)

// driftPopularity writes a counter value directly, bypassing RecordLike,
// to simulate out-of-band drift.
func driftPopularity(t *testing.T, db *DB, trackID string, value int64) {
	t.Helper()
	_, err := db.Conn().ExecContext(context.Background(),
		"UPDATE tracks SET popularity = ? WHERE id = ?", value, trackID)
	if err != nil {
		t.Fatalf("failed to drift popularity: %v", err)
	}
}

func TestReconcilePopularityNoDrift(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	if err := db.RecordLike(ctx, &models.LikeEvent{UserID: "u1", TrackID: "t1"}); err != nil {
		t.Fatalf("RecordLike: %v", err)
	}

	report, err := db.ReconcilePopularity(ctx)
	if err != nil {
		t.Fatalf("ReconcilePopularity: %v", err)
	}
	if report.TracksChecked != 5 {
		t.Errorf("expected 5 tracks checked, got %d", report.TracksChecked)
	}
	if len(report.Mismatches) != 0 || report.Repaired != 0 {
		t.Errorf("expected no mismatches, got %+v", report)
	}
}

func TestReconcilePopularityRepairsDrift(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	if err := db.RecordLike(ctx, &models.LikeEvent{UserID: "u1", TrackID: "t1"}); err != nil {
		t.Fatalf("RecordLike: %v", err)
	}
	if err := db.RecordLike(ctx, &models.LikeEvent{UserID: "u2", TrackID: "t1"}); err != nil {
		t.Fatalf("RecordLike: %v", err)
	}

	driftPopularity(t, db, "t1", 99)
	driftPopularity(t, db, "t2", 7)

	report, err := db.ReconcilePopularity(ctx)
	if err != nil {
		t.Fatalf("ReconcilePopularity: %v", err)
	}
	if len(report.Mismatches) != 2 {
		t.Fatalf("expected 2 mismatches, got %d", len(report.Mismatches))
	}
	if report.Repaired != 2 {
		t.Errorf("expected 2 repairs, got %d", report.Repaired)
	}

	// The like log is the source of truth.
	t1, err := db.GetTrack(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if t1.Popularity != 2 {
		t.Errorf("expected t1 popularity 2 after repair, got %d", t1.Popularity)
	}
	t2, err := db.GetTrack(ctx, "t2")
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if t2.Popularity != 0 {
		t.Errorf("expected t2 popularity 0 after repair, got %d", t2.Popularity)
	}

	// A second pass finds nothing to repair.
	report, err = db.ReconcilePopularity(ctx)
	if err != nil {
		t.Fatalf("ReconcilePopularity (second run): %v", err)
	}
	if len(report.Mismatches) != 0 {
		t.Errorf("expected clean second pass, got %d mismatches", len(report.Mismatches))
	}
}

func TestVerifyPopularity(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	if err := db.RecordLike(ctx, &models.LikeEvent{UserID: "u1", TrackID: "t1"}); err != nil {
		t.Fatalf("RecordLike: %v", err)
	}

	if err := db.VerifyPopularity(ctx, "t1"); err != nil {
		t.Errorf("expected consistent counter, got %v", err)
	}

	driftPopularity(t, db, "t1", 10)

	err := db.VerifyPopularity(ctx, "t1")
	var cerr *ConsistencyError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
	if cerr.Stored != 10 || cerr.Actual != 1 {
		t.Errorf("expected stored=10 actual=1, got %+v", cerr)
	}
}
