// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/tracklore/tracklore/internal/cache"
	"github.com/tracklore/tracklore/internal/database"
	"github.com/tracklore/tracklore/internal/logging"
	"github.com/tracklore/tracklore/internal/metrics"
	"github.com/tracklore/tracklore/internal/models"
)

// RefreshDailyStats handles POST /api/v1/stats/daily/refresh.
// Recomputes the per-track aggregates for the given day (query param
// "day", YYYY-MM-DD, default today). The operation is idempotent.
func (h *Handler) RefreshDailyStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	day := r.URL.Query().Get("day")
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	}

	rows, err := h.db.RefreshDailyStats(r.Context(), day)
	metrics.RecordStatsRefresh(time.Since(start), rows, err)
	if err != nil {
		var vErr *database.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error(), nil)
			return
		}
		logging.Error().Err(err).Str("day", sanitizeLogValue(day)).Msg("Failed to refresh daily stats")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to refresh daily stats", err)
		return
	}

	// Derived data changed, cached reads are stale
	h.cache.Clear()

	logging.Info().Str("day", day).Int64("rows", rows).Msg("Daily stats refreshed")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: RefreshStatsResponse{
			Day:           day,
			TracksUpdated: rows,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// GetDailyStats handles GET /api/v1/stats/daily.
// Returns per-track aggregates for the given day ordered by play count.
// With track_id set, narrows the result to that single track.
func (h *Handler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	day := r.URL.Query().Get("day")
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	}
	trackID := r.URL.Query().Get("track_id")

	cacheKey := cache.GenerateKey("daily_stats", map[string]string{
		"day":      day,
		"track_id": trackID,
	})
	if cached, ok := h.cache.Get(cacheKey); ok {
		if stats, ok := cached.([]models.DailyTrackStat); ok {
			respondJSON(w, http.StatusOK, &models.APIResponse{
				Status: "success",
				Data:   stats,
				Metadata: models.Metadata{
					Timestamp:   time.Now(),
					QueryTimeMS: time.Since(start).Milliseconds(),
					Cached:      true,
					TotalRows:   int64(len(stats)),
				},
			})
			return
		}
	}

	var stats []models.DailyTrackStat
	var err error
	if trackID != "" {
		var s *models.DailyTrackStat
		s, err = h.db.GetTrackDailyStat(r.Context(), trackID, day)
		if errors.Is(err, sql.ErrNoRows) {
			s, err = nil, nil
		}
		stats = []models.DailyTrackStat{}
		if s != nil {
			stats = append(stats, *s)
		}
	} else {
		stats, err = h.db.GetDailyStats(r.Context(), day)
	}
	if err != nil {
		var vErr *database.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error(), nil)
			return
		}
		logging.Error().Err(err).Str("day", sanitizeLogValue(day)).Msg("Failed to query daily stats")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to query daily stats", err)
		return
	}

	h.cache.Set(cacheKey, stats)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   stats,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			TotalRows:   int64(len(stats)),
		},
	})
}

// ReconcilePopularity handles POST /api/v1/popularity/reconcile.
// Compares every track's popularity counter against the like log and
// repairs any drift, returning a report of what was found.
func (h *Handler) ReconcilePopularity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report, err := h.db.ReconcilePopularity(r.Context())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to reconcile popularity")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reconcile popularity", err)
		return
	}

	metrics.RecordReconcile(time.Since(start), int64(len(report.Mismatches)))

	if report.Repaired > 0 {
		// Popularity affects recommendation ranking
		h.cache.Clear()
	}

	if len(report.Mismatches) > 0 {
		logging.Warn().
			Int("mismatches", len(report.Mismatches)).
			Int64("repaired", report.Repaired).
			Msg("Popularity drift repaired")
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   report,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
