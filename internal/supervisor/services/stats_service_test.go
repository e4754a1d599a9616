// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockRefresher records which days were refreshed.
type mockRefresher struct {
	mu   sync.Mutex
	days []string
	err  error
}

func (m *mockRefresher) RefreshDailyStats(ctx context.Context, day string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days = append(m.days, day)
	if m.err != nil {
		return 0, m.err
	}
	return 1, nil
}

func (m *mockRefresher) refreshedDays() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.days))
	copy(out, m.days)
	return out
}

func TestStatsRefreshServiceInterface(t *testing.T) {
	var _ suture.Service = (*StatsRefreshService)(nil)
}

func TestStatsRefreshServiceRunsImmediately(t *testing.T) {
	mock := &mockRefresher{}
	svc := NewStatsRefreshService(mock, time.Hour, 3)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()

	// The first refresh happens on startup, not on the first tick
	deadline := time.After(2 * time.Second)
	for len(mock.refreshedDays()) < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected 3 refreshed days, got %v", mock.refreshedDays())
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop in time")
	}

	days := mock.refreshedDays()
	today := time.Now().UTC().Format("2006-01-02")
	if days[0] != today {
		t.Errorf("expected first refreshed day %s, got %s", today, days[0])
	}
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	if days[1] != yesterday {
		t.Errorf("expected second refreshed day %s, got %s", yesterday, days[1])
	}
}

func TestStatsRefreshServiceTicks(t *testing.T) {
	mock := &mockRefresher{}
	svc := NewStatsRefreshService(mock, 20*time.Millisecond, 1)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for len(mock.refreshedDays()) < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 refreshes, got %d", len(mock.refreshedDays()))
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-errCh
}

func TestStatsRefreshServiceSurvivesRefreshErrors(t *testing.T) {
	mock := &mockRefresher{err: errors.New("database unavailable")}
	svc := NewStatsRefreshService(mock, 20*time.Millisecond, 2)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()

	// Failing refreshes must not terminate the loop
	deadline := time.After(2 * time.Second)
	for len(mock.refreshedDays()) < 4 {
		select {
		case <-deadline:
			t.Fatalf("expected the loop to keep running, got %d refreshes", len(mock.refreshedDays()))
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop in time")
	}
}

func TestStatsRefreshServiceDefaults(t *testing.T) {
	svc := NewStatsRefreshService(&mockRefresher{}, 0, 0)
	if svc.interval != time.Hour {
		t.Errorf("expected default interval 1h, got %v", svc.interval)
	}
	if svc.daysBack != 2 {
		t.Errorf("expected default daysBack 2, got %d", svc.daysBack)
	}
	if svc.String() != "stats-refresh" {
		t.Errorf("expected name stats-refresh, got %q", svc.String())
	}
}
