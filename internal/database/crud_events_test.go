// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tracklore/tracklore/internal/models"
)

func TestRecordPlayAssignsSequentialIDs(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	now := time.Now().UTC()
	first := recordPlay(t, db, "u1", "t1", now)
	second := recordPlay(t, db, "u2", "t2", now.Add(time.Minute))
	third := recordPlay(t, db, "u1", "t1", now.Add(2*time.Minute))

	if first != 1 || second != 2 || third != 3 {
		t.Errorf("expected listen ids 1,2,3, got %d,%d,%d", first, second, third)
	}
}

func TestRecordPlayValidation(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	tests := []struct {
		name  string
		event models.ListeningEvent
		field string
	}{
		{
			name:  "missing user",
			event: models.ListeningEvent{TrackID: "t1", Source: "SEARCH", Device: "WEB"},
			field: "user_id",
		},
		{
			name:  "missing track",
			event: models.ListeningEvent{UserID: "u1", Source: "SEARCH", Device: "WEB"},
			field: "track_id",
		},
		{
			name:  "bad source",
			event: models.ListeningEvent{UserID: "u1", TrackID: "t1", Source: "SHUFFLE", Device: "WEB"},
			field: "source",
		},
		{
			name:  "bad device",
			event: models.ListeningEvent{UserID: "u1", TrackID: "t1", Source: "SEARCH", Device: "CONSOLE"},
			field: "device",
		},
		{
			name:  "negative ms_played",
			event: models.ListeningEvent{UserID: "u1", TrackID: "t1", Source: "SEARCH", Device: "WEB", MSPlayed: -5},
			field: "ms_played",
		},
		{
			name:  "unknown user",
			event: models.ListeningEvent{UserID: "ghost", TrackID: "t1", Source: "SEARCH", Device: "WEB"},
			field: "user_id",
		},
		{
			name:  "unknown track",
			event: models.ListeningEvent{UserID: "u1", TrackID: "ghost", Source: "SEARCH", Device: "WEB"},
			field: "track_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.RecordPlay(ctx, &tt.event)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestRecordPlayDefaultsPlayedAt(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	ev := models.ListeningEvent{
		UserID:  "u1",
		TrackID: "t1",
		Source:  models.SourceRadio,
		Device:  models.DeviceMobile,
	}
	if _, err := db.RecordPlay(context.Background(), &ev); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}
	if ev.PlayedAt.IsZero() {
		t.Error("expected PlayedAt to be defaulted to insertion time")
	}
}

func TestQueryEventsFiltersAndOrder(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	recordPlay(t, db, "u1", "t1", base)
	recordPlay(t, db, "u2", "t2", base.Add(time.Hour))
	recordPlay(t, db, "u1", "t2", base.Add(2*time.Hour))
	recordPlay(t, db, "u1", "t1", base.Add(24*time.Hour))

	events, err := db.QueryEvents(ctx, EventFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("QueryEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events for u1, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].ListenID <= events[i-1].ListenID {
			t.Errorf("events not ordered by listen_id: %d after %d", events[i].ListenID, events[i-1].ListenID)
		}
	}

	events, err = db.QueryEvents(ctx, EventFilter{TrackID: "t2"})
	if err != nil {
		t.Fatalf("QueryEvents: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events for t2, got %d", len(events))
	}

	until := base.Add(90 * time.Minute)
	events, err = db.QueryEvents(ctx, EventFilter{Since: &base, Until: &until})
	if err != nil {
		t.Fatalf("QueryEvents: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events in window, got %d", len(events))
	}

	events, err = db.QueryEvents(ctx, EventFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("QueryEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events with limit/offset, got %d", len(events))
	}
	if events[0].ListenID != 2 {
		t.Errorf("expected offset to skip listen_id 1, got first id %d", events[0].ListenID)
	}
}

func TestQueryEventsEmpty(t *testing.T) {
	db := setupTestDB(t)

	events, err := db.QueryEvents(context.Background(), EventFilter{UserID: "nobody"})
	if err != nil {
		t.Fatalf("QueryEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}
