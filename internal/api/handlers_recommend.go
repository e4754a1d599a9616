// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tracklore/tracklore/internal/cache"
	"github.com/tracklore/tracklore/internal/logging"
	"github.com/tracklore/tracklore/internal/models"
	"github.com/tracklore/tracklore/internal/recommend"
)

// Recommendations handles GET /api/v1/recommendations/user/{userID}.
// The optional limit query param caps the result count; zero and
// negative values are rejected rather than silently defaulted so
// callers learn about broken pagination logic.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userID path parameter is required", nil)
		return
	}

	limit := h.engine.DefaultLimit()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer", err)
			return
		}
		limit = parsed
	}

	cacheKey := cache.GenerateKey("recommendations", map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
	})
	if cached, ok := h.cache.Get(cacheKey); ok {
		if tracks, ok := cached.([]models.RecommendedTrack); ok {
			respondJSON(w, http.StatusOK, &models.APIResponse{
				Status: "success",
				Data:   tracks,
				Metadata: models.Metadata{
					Timestamp:   time.Now(),
					QueryTimeMS: time.Since(start).Milliseconds(),
					Cached:      true,
					TotalRows:   int64(len(tracks)),
				},
			})
			return
		}
	}

	tracks, err := h.engine.Recommend(r.Context(), userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrInvalidLimit):
			respondError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer", nil)
		case errors.Is(err, recommend.ErrDeadlineExceeded):
			respondError(w, http.StatusGatewayTimeout, "RECOMMENDATION_TIMEOUT", "Recommendation computation exceeded its deadline", nil)
		default:
			logging.Error().Err(err).Str("user_id", sanitizeLogValue(userID)).Msg("Failed to compute recommendations")
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute recommendations", err)
		}
		return
	}

	h.cache.Set(cacheKey, tracks)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   tracks,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			TotalRows:   int64(len(tracks)),
		},
	})
}
