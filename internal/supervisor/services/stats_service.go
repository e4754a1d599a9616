// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tracklore/tracklore/internal/logging"
	"github.com/tracklore/tracklore/internal/metrics"
)

// StatsRefresher recomputes the per-track daily aggregates for one day.
// Satisfied by *database.DB.
type StatsRefresher interface {
	RefreshDailyStats(ctx context.Context, day string) (int64, error)
}

// StatsRefreshService periodically recomputes daily track statistics
// so the aggregates stay close to the event log without requiring
// manual refresh calls.
//
// Each run covers today plus daysBack-1 previous days, catching events
// that arrive late for a day that was already aggregated.
type StatsRefreshService struct {
	db       StatsRefresher
	interval time.Duration
	daysBack int
	name     string
}

// NewStatsRefreshService creates a new stats refresh scheduler.
func NewStatsRefreshService(db StatsRefresher, interval time.Duration, daysBack int) *StatsRefreshService {
	if interval <= 0 {
		interval = time.Hour
	}
	if daysBack <= 0 {
		daysBack = 2
	}
	return &StatsRefreshService{
		db:       db,
		interval: interval,
		daysBack: daysBack,
		name:     "stats-refresh",
	}
}

// Serve implements suture.Service. Runs one refresh immediately, then
// on every tick until the context is canceled.
func (s *StatsRefreshService) Serve(ctx context.Context) error {
	logger := logging.WithComponent("stats-refresh")
	logger.Info().
		Dur("interval", s.interval).
		Int("days_back", s.daysBack).
		Msg("Stats refresh scheduler started")

	s.refreshRecentDays(ctx, logger)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stats refresh scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.refreshRecentDays(ctx, logger)
		}
	}
}

// refreshRecentDays refreshes today and the preceding days in the
// configured window. Individual day failures are logged and do not
// abort the remaining days.
func (s *StatsRefreshService) refreshRecentDays(ctx context.Context, logger zerolog.Logger) {
	now := time.Now().UTC()
	for i := 0; i < s.daysBack; i++ {
		if ctx.Err() != nil {
			return
		}
		day := now.AddDate(0, 0, -i).Format("2006-01-02")

		start := time.Now()
		rows, err := s.db.RefreshDailyStats(ctx, day)
		metrics.RecordStatsRefresh(time.Since(start), rows, err)
		if err != nil {
			logger.Warn().Err(err).Str("day", day).Msg("Scheduled stats refresh failed")
			continue
		}
		logger.Debug().Str("day", day).Int64("rows", rows).Msg("Scheduled stats refresh completed")
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *StatsRefreshService) String() string {
	return s.name
}
