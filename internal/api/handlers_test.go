// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tracklore/tracklore/internal/config"
	"github.com/tracklore/tracklore/internal/database"
	"github.com/tracklore/tracklore/internal/logging"
	"github.com/tracklore/tracklore/internal/models"
	"github.com/tracklore/tracklore/internal/recommend"
)

// testDBSemaphore bounds concurrent in-memory DuckDB instances.
var testDBSemaphore = make(chan struct{}, 4)

// newTestRouter builds a full router over a fresh in-memory database
// with a small seeded catalog.
func newTestRouter(t *testing.T) (*database.DB, http.Handler) {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Path:        ":memory:",
			MaxMemory:   "1GB",
			SkipIndexes: true,
		},
		API: config.APIConfig{
			DefaultPageSize:   100,
			MaxPageSize:       1000,
			RateLimitDisabled: true,
		},
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	ctx := context.Background()
	users := []models.User{
		{ID: "u1", Name: "alice"},
		{ID: "u2", Name: "bob"},
		{ID: "u3", Name: "carol"},
	}
	for i := range users {
		if err := db.UpsertUser(ctx, &users[i]); err != nil {
			t.Fatalf("Failed to seed user: %v", err)
		}
	}
	if err := db.UpsertArtist(ctx, &models.Artist{ID: "a1", Name: "The Reference Set"}); err != nil {
		t.Fatalf("Failed to seed artist: %v", err)
	}
	for _, trackID := range []string{"t1", "t2", "t3"} {
		if err := db.UpsertTrack(ctx, &models.Track{ID: trackID, Title: "Track " + trackID}); err != nil {
			t.Fatalf("Failed to seed track: %v", err)
		}
		ta := &models.TrackArtist{TrackID: trackID, ArtistID: "a1", Role: models.RolePrimary}
		if err := db.SetTrackArtist(ctx, ta); err != nil {
			t.Fatalf("Failed to seed track credit: %v", err)
		}
	}

	engine, err := recommend.NewEngine(db, recommend.DefaultConfig(), logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	handler := NewHandler(db, engine, cfg)
	return db, NewRouter(handler).SetupChi()
}

// doJSON issues a request with an optional JSON body and decodes the
// envelope from the response.
func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp models.APIResponse
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to unmarshal response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func TestRecordPlayEndpoint(t *testing.T) {
	_, router := newTestRouter(t)

	playedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/events/plays", RecordPlayRequest{
		UserID:   "u1",
		TrackID:  "t1",
		Source:   models.SourceSearch,
		Device:   models.DeviceMobile,
		MSPlayed: 180000,
		PlayedAt: &playedAt,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if resp.Status != "success" {
		t.Errorf("Expected success status, got %q", resp.Status)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected object data, got %T", resp.Data)
	}
	if got := data["listen_id"].(float64); got != 1 {
		t.Errorf("Expected listen_id 1, got %v", got)
	}

	// Second play gets the next sequential id
	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/events/plays", RecordPlayRequest{
		UserID:  "u1",
		TrackID: "t2",
		Source:  models.SourcePlaylist,
		Device:  models.DeviceWeb,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	data = resp.Data.(map[string]interface{})
	if got := data["listen_id"].(float64); got != 2 {
		t.Errorf("Expected listen_id 2, got %v", got)
	}
}

func TestRecordPlayEndpointValidation(t *testing.T) {
	_, router := newTestRouter(t)

	tests := []struct {
		name string
		req  RecordPlayRequest
	}{
		{"missing user", RecordPlayRequest{TrackID: "t1", Source: models.SourceSearch, Device: models.DeviceMobile}},
		{"missing track", RecordPlayRequest{UserID: "u1", Source: models.SourceSearch, Device: models.DeviceMobile}},
		{"unknown source", RecordPlayRequest{UserID: "u1", TrackID: "t1", Source: "SHOUTCAST", Device: models.DeviceMobile}},
		{"unknown device", RecordPlayRequest{UserID: "u1", TrackID: "t1", Source: models.SourceSearch, Device: "FRIDGE"}},
		{"negative duration", RecordPlayRequest{UserID: "u1", TrackID: "t1", Source: models.SourceSearch, Device: models.DeviceMobile, MSPlayed: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doJSON(t, router, http.MethodPost, "/api/v1/events/plays", tt.req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}
			if resp.Error == nil {
				t.Fatal("Expected error body")
			}
		})
	}
}

func TestRecordPlayEndpointBadBody(t *testing.T) {
	_, router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/plays", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for malformed body, got %d", w.Code)
	}
}

func TestRecordLikeEndpoint(t *testing.T) {
	db, router := newTestRouter(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/events/likes", RecordLikeRequest{
		UserID:  "u1",
		TrackID: "t1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	data := resp.Data.(map[string]interface{})
	if got := data["popularity"].(float64); got != 1 {
		t.Errorf("Expected popularity 1 after first like, got %v", got)
	}

	// Same user and track again conflicts and leaves the counter alone
	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/events/likes", RecordLikeRequest{
		UserID:  "u1",
		TrackID: "t1",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected status 409 for duplicate like, got %d", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != "DUPLICATE_LIKE" {
		t.Errorf("Expected error code DUPLICATE_LIKE, got %v", resp.Error)
	}

	track, err := db.GetTrack(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Failed to read track: %v", err)
	}
	if track.Popularity != 1 {
		t.Errorf("Expected popularity 1 after duplicate like, got %d", track.Popularity)
	}

	// A different user liking the same track is fine
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/events/likes", RecordLikeRequest{
		UserID:  "u2",
		TrackID: "t1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201 for second user, got %d", w.Code)
	}
}

func TestRecordLikeEndpointUnknownTrack(t *testing.T) {
	_, router := newTestRouter(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/events/likes", RecordLikeRequest{
		UserID:  "u1",
		TrackID: "missing",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for unknown track, got %d", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected error code VALIDATION_ERROR, got %v", resp.Error)
	}
}

func TestListEventsEndpoint(t *testing.T) {
	db, router := newTestRouter(t)

	ctx := context.Background()
	playedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, play := range []struct{ user, track string }{
		{"u1", "t1"}, {"u1", "t2"}, {"u2", "t1"},
	} {
		ev := &models.ListeningEvent{
			UserID:   play.user,
			TrackID:  play.track,
			PlayedAt: playedAt.Add(time.Duration(i) * time.Minute),
			Source:   models.SourceSearch,
			MSPlayed: 1000,
			Device:   models.DeviceMobile,
		}
		if _, err := db.RecordPlay(ctx, ev); err != nil {
			t.Fatalf("Failed to record play: %v", err)
		}
	}

	w, resp := doJSON(t, router, http.MethodGet, "/api/v1/events", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	events := resp.Data.([]interface{})
	if len(events) != 3 {
		t.Errorf("Expected 3 events, got %d", len(events))
	}
	if resp.Metadata.TotalRows != 3 {
		t.Errorf("Expected total_rows 3, got %d", resp.Metadata.TotalRows)
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/events?user_id=u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := len(resp.Data.([]interface{})); got != 2 {
		t.Errorf("Expected 2 events for u1, got %d", got)
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/events?limit=1&offset=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	events = resp.Data.([]interface{})
	if len(events) != 1 {
		t.Fatalf("Expected 1 event with limit=1, got %d", len(events))
	}
	first := events[0].(map[string]interface{})
	if got := first["listen_id"].(float64); got != 2 {
		t.Errorf("Expected listen_id 2 at offset 1, got %v", got)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/events?start=yesterday", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for malformed start, got %d", w.Code)
	}
}

func TestDailyStatsEndpoints(t *testing.T) {
	db, router := newTestRouter(t)

	ctx := context.Background()
	day := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	plays := []struct {
		user, track string
		at          time.Time
	}{
		{"u1", "t1", day},
		{"u2", "t1", day.Add(time.Hour)},
		{"u1", "t1", day.Add(2 * time.Hour)},
		{"u1", "t2", day.Add(3 * time.Hour)},
	}
	for _, p := range plays {
		ev := &models.ListeningEvent{
			UserID:   p.user,
			TrackID:  p.track,
			PlayedAt: p.at,
			Source:   models.SourceAlbum,
			MSPlayed: 60000,
			Device:   models.DeviceDesktop,
		}
		if _, err := db.RecordPlay(ctx, ev); err != nil {
			t.Fatalf("Failed to record play: %v", err)
		}
	}

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/stats/daily/refresh?day=2026-08-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	data := resp.Data.(map[string]interface{})
	if got := data["tracks_updated"].(float64); got != 2 {
		t.Errorf("Expected 2 tracks updated, got %v", got)
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/stats/daily?day=2026-08-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	stats := resp.Data.([]interface{})
	if len(stats) != 2 {
		t.Fatalf("Expected 2 stat rows, got %d", len(stats))
	}
	top := stats[0].(map[string]interface{})
	if top["track_id"] != "t1" {
		t.Errorf("Expected t1 first by play count, got %v", top["track_id"])
	}
	if got := top["plays"].(float64); got != 3 {
		t.Errorf("Expected 3 plays for t1, got %v", got)
	}
	if got := top["unique_listeners"].(float64); got != 2 {
		t.Errorf("Expected 2 unique listeners for t1, got %v", got)
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/stats/daily?day=2026-08-01&track_id=t2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	stats = resp.Data.([]interface{})
	if len(stats) != 1 {
		t.Fatalf("Expected 1 stat row for t2, got %d", len(stats))
	}
	if got := stats[0].(map[string]interface{})["track_id"]; got != "t2" {
		t.Errorf("Expected t2, got %v", got)
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/stats/daily?day=2026-08-01&track_id=t3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if stats = resp.Data.([]interface{}); len(stats) != 0 {
		t.Errorf("Expected no stat rows for unplayed track, got %d", len(stats))
	}

	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/stats/daily/refresh?day=August", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for malformed day, got %d", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected error code VALIDATION_ERROR, got %v", resp.Error)
	}
}

func TestReconcilePopularityEndpoint(t *testing.T) {
	db, router := newTestRouter(t)

	ctx := context.Background()
	if err := db.RecordLike(ctx, &models.LikeEvent{UserID: "u1", TrackID: "t1"}); err != nil {
		t.Fatalf("Failed to record like: %v", err)
	}

	// Manufacture drift on the stored counter
	if _, err := db.Conn().ExecContext(ctx, "UPDATE tracks SET popularity = 42 WHERE id = 't1'"); err != nil {
		t.Fatalf("Failed to drift popularity: %v", err)
	}

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/popularity/reconcile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	data := resp.Data.(map[string]interface{})
	if got := data["repaired"].(float64); got != 1 {
		t.Errorf("Expected 1 repaired track, got %v", got)
	}
	mismatches := data["mismatches"].([]interface{})
	if len(mismatches) != 1 {
		t.Fatalf("Expected 1 mismatch, got %d", len(mismatches))
	}
	m := mismatches[0].(map[string]interface{})
	if m["track_id"] != "t1" || m["stored"].(float64) != 42 || m["actual"].(float64) != 1 {
		t.Errorf("Unexpected mismatch entry: %v", m)
	}

	track, err := db.GetTrack(ctx, "t1")
	if err != nil {
		t.Fatalf("Failed to read track: %v", err)
	}
	if track.Popularity != 1 {
		t.Errorf("Expected counter repaired to 1, got %d", track.Popularity)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	db, router := newTestRouter(t)

	ctx := context.Background()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	recordPlay := func(user, track string) {
		t.Helper()
		ev := &models.ListeningEvent{
			UserID:   user,
			TrackID:  track,
			PlayedAt: at,
			Source:   models.SourceRecs,
			MSPlayed: 1000,
			Device:   models.DeviceWeb,
		}
		at = at.Add(time.Minute)
		if _, err := db.RecordPlay(ctx, ev); err != nil {
			t.Fatalf("Failed to record play: %v", err)
		}
	}

	// u2 shares t1 and t2 with u1, and has also played t3
	recordPlay("u1", "t1")
	recordPlay("u1", "t2")
	recordPlay("u2", "t1")
	recordPlay("u2", "t2")
	recordPlay("u2", "t3")

	w, resp := doJSON(t, router, http.MethodGet, "/api/v1/recommendations/user/u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	recs := resp.Data.([]interface{})
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}
	rec := recs[0].(map[string]interface{})
	if rec["track_id"] != "t3" {
		t.Errorf("Expected t3 recommended, got %v", rec["track_id"])
	}
	if got := rec["score"].(float64); got != 2 {
		t.Errorf("Expected score 2, got %v", got)
	}

	// No listening history means an empty list, not an error
	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/recommendations/user/u3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for empty history, got %d", w.Code)
	}
	if got := len(resp.Data.([]interface{})); got != 0 {
		t.Errorf("Expected empty recommendations, got %d", got)
	}
}

func TestRecommendationsEndpointInvalidLimit(t *testing.T) {
	_, router := newTestRouter(t)

	for _, limit := range []string{"0", "-5", "abc"} {
		w, resp := doJSON(t, router, http.MethodGet, "/api/v1/recommendations/user/u1?limit="+limit, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected status 400, got %d", limit, w.Code)
			continue
		}
		if resp.Error == nil || resp.Error.Code != "INVALID_LIMIT" {
			t.Errorf("limit=%s: expected error code INVALID_LIMIT, got %v", limit, resp.Error)
		}
	}
}

func TestDailyStatsCaching(t *testing.T) {
	db, router := newTestRouter(t)

	ctx := context.Background()
	ev := &models.ListeningEvent{
		UserID:   "u1",
		TrackID:  "t1",
		PlayedAt: time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC),
		Source:   models.SourceRadio,
		MSPlayed: 1000,
		Device:   models.DeviceTV,
	}
	if _, err := db.RecordPlay(ctx, ev); err != nil {
		t.Fatalf("Failed to record play: %v", err)
	}
	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/stats/daily/refresh?day=2026-08-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from refresh, got %d", w.Code)
	}

	w, resp := doJSON(t, router, http.MethodGet, "/api/v1/stats/daily?day=2026-08-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if resp.Metadata.Cached {
		t.Error("First read should not be served from cache")
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/stats/daily?day=2026-08-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !resp.Metadata.Cached {
		t.Error("Second read should be served from cache")
	}

	// A track-narrowed read keys separately from the full-day read
	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/stats/daily?day=2026-08-01&track_id=t2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if resp.Metadata.Cached {
		t.Error("Track-narrowed read must not reuse the full-day cache entry")
	}
	if rows := resp.Data.([]interface{}); len(rows) != 0 {
		t.Errorf("Expected no rows for unplayed track, got %d", len(rows))
	}

	// A refresh invalidates cached reads
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/stats/daily/refresh?day=2026-08-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from refresh, got %d", w.Code)
	}
	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/stats/daily?day=2026-08-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if resp.Metadata.Cached {
		t.Error("Read after refresh should not be served from cache")
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, router := newTestRouter(t)

	w, resp := doJSON(t, router, http.MethodGet, "/api/v1/health/live", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from liveness, got %d", w.Code)
	}
	if resp.Status != "success" {
		t.Errorf("Expected success status, got %q", resp.Status)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/health/ready", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from readiness, got %d", w.Code)
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/v1/health/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from health, got %d", w.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["database_connected"] != true {
		t.Errorf("Expected database_connected true, got %v", data["database_connected"])
	}
}
