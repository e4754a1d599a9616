// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tracklore/tracklore/internal/database"
	"github.com/tracklore/tracklore/internal/logging"
	"github.com/tracklore/tracklore/internal/metrics"
	"github.com/tracklore/tracklore/internal/models"
)

// RecordPlay handles POST /api/v1/events/plays.
// Appends a listening event to the log and returns the assigned listen_id.
func (h *Handler) RecordPlay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecordPlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	ev := &models.ListeningEvent{
		UserID:   req.UserID,
		TrackID:  req.TrackID,
		Source:   req.Source,
		MSPlayed: req.MSPlayed,
		Device:   req.Device,
	}
	if req.PlayedAt != nil {
		ev.PlayedAt = *req.PlayedAt
	}

	listenID, err := h.db.RecordPlay(r.Context(), ev)
	if err != nil {
		var vErr *database.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error(), nil)
			return
		}
		logging.Error().Err(err).Msg("Failed to record play")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record play", err)
		return
	}

	metrics.RecordEvent(ev.Source, ev.Device)
	h.cache.Clear()

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data: RecordPlayResponse{
			ListenID: listenID,
			PlayedAt: ev.PlayedAt,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// RecordLike handles POST /api/v1/events/likes.
// Records the like and increments the track's popularity counter in the
// same transaction. A repeated like returns 409 and leaves the counter
// unchanged.
func (h *Handler) RecordLike(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecordLikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	like := &models.LikeEvent{
		UserID:  req.UserID,
		TrackID: req.TrackID,
	}

	if err := h.db.RecordLike(r.Context(), like); err != nil {
		if errors.Is(err, database.ErrDuplicateLike) {
			metrics.RecordLike(true)
			respondError(w, http.StatusConflict, "DUPLICATE_LIKE", "User has already liked this track", nil)
			return
		}
		var vErr *database.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error(), nil)
			return
		}
		logging.Error().Err(err).Msg("Failed to record like")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record like", err)
		return
	}

	metrics.RecordLike(false)
	h.cache.Clear()

	track, err := h.db.GetTrack(r.Context(), req.TrackID)
	if err != nil {
		logging.Warn().Err(err).Str("track_id", sanitizeLogValue(req.TrackID)).Msg("Failed to read popularity after like")
	}
	var popularity int64
	if track != nil {
		popularity = track.Popularity
	}

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data: RecordLikeResponse{
			UserID:     req.UserID,
			TrackID:    req.TrackID,
			Popularity: popularity,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// ListEvents handles GET /api/v1/events.
// Supports user_id, track_id, start, end filters plus limit/offset
// pagination. Events are returned in append order.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	filter := database.EventFilter{
		UserID:  r.URL.Query().Get("user_id"),
		TrackID: r.URL.Query().Get("track_id"),
		Limit:   getIntParam(r, "limit", h.defaultPageSize()),
		Offset:  getIntParam(r, "offset", 0),
	}
	if filter.Limit > h.maxPageSize() {
		filter.Limit = h.maxPageSize()
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if raw := r.URL.Query().Get("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid start timestamp (use RFC3339)", err)
			return
		}
		filter.Since = &t
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid end timestamp (use RFC3339)", err)
			return
		}
		filter.Until = &t
	}

	events, err := h.db.QueryEvents(ctx, filter)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to query events")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to query events", err)
		return
	}

	total, err := h.db.CountEvents(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to count events")
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   events,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			PageSize:    filter.Limit,
			TotalRows:   total,
		},
	})
}

// respondValidationError sends a 400 with field-level details preserved.
func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: apiErr,
	})
}

func (h *Handler) defaultPageSize() int {
	if h.config != nil && h.config.API.DefaultPageSize > 0 {
		return h.config.API.DefaultPageSize
	}
	return 100
}

func (h *Handler) maxPageSize() int {
	if h.config != nil && h.config.API.MaxPageSize > 0 {
		return h.config.API.MaxPageSize
	}
	return 1000
}
