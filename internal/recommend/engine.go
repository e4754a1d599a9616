// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tracklore/tracklore/internal/metrics"
	"github.com/tracklore/tracklore/internal/models"
)

// Engine computes overlap-based recommendations. It is stateless apart
// from its config and safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	provider DataProvider
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(provider DataProvider, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("data provider must not be nil")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		provider: provider,
	}, nil
}

// DefaultLimit returns the configured result count for requests that
// do not specify one.
func (e *Engine) DefaultLimit() int {
	return e.config.DefaultLimit
}

// Recommend returns up to limit ranked tracks for a user. A limit of
// zero or less returns ErrInvalidLimit. A user with no listening
// history gets an empty list. If the deadline expires mid-computation,
// ErrDeadlineExceeded is returned wrapping the context error.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) ([]models.RecommendedTrack, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, ErrInvalidLimit)
	}
	if limit > e.config.MaxLimit {
		limit = e.config.MaxLimit
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	recs, err := e.recommend(ctx, userID, limit)
	timedOut := errors.Is(err, ErrDeadlineExceeded)
	metrics.RecordRecommendation(time.Since(start), timedOut)

	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("Recommendation failed")
		return nil, err
	}

	e.logger.Debug().
		Str("user_id", userID).
		Int("results", len(recs)).
		Dur("elapsed", time.Since(start)).
		Msg("Recommendations computed")

	return recs, nil
}

func (e *Engine) recommend(ctx context.Context, userID string, limit int) ([]models.RecommendedTrack, error) {
	listened, err := e.provider.UserTracks(ctx, userID)
	if err != nil {
		return nil, e.wrapProviderErr("load user history", err)
	}
	if len(listened) == 0 {
		return []models.RecommendedTrack{}, nil
	}
	listenedSet := make(map[string]struct{}, len(listened))
	for _, trackID := range listened {
		listenedSet[trackID] = struct{}{}
	}

	if err := checkDeadline(ctx); err != nil {
		return nil, err
	}

	overlaps, err := e.provider.SimilarUsers(ctx, userID, e.config.MinSharedTracks)
	if err != nil {
		return nil, e.wrapProviderErr("find similar users", err)
	}
	if len(overlaps) == 0 {
		return []models.RecommendedTrack{}, nil
	}

	overlapByUser := make(map[string]int64, len(overlaps))
	similarIDs := make([]string, 0, len(overlaps))
	for _, o := range overlaps {
		overlapByUser[o.UserID] = o.SharedTracks
		similarIDs = append(similarIDs, o.UserID)
	}

	if err := checkDeadline(ctx); err != nil {
		return nil, err
	}

	played, err := e.provider.TracksPlayedBy(ctx, similarIDs)
	if err != nil {
		return nil, e.wrapProviderErr("load similar user histories", err)
	}

	// Each similar user contributes their overlap count once per
	// distinct candidate they played.
	scores := make(map[string]int64)
	for similarID, tracks := range played {
		weight := overlapByUser[similarID]
		for _, trackID := range tracks {
			if _, ok := listenedSet[trackID]; ok {
				continue
			}
			scores[trackID] += weight
		}
	}
	if len(scores) == 0 {
		return []models.RecommendedTrack{}, nil
	}

	if err := checkDeadline(ctx); err != nil {
		return nil, err
	}

	candidateIDs := make([]string, 0, len(scores))
	for trackID := range scores {
		candidateIDs = append(candidateIDs, trackID)
	}
	details, err := e.provider.TrackDetails(ctx, candidateIDs)
	if err != nil {
		return nil, e.wrapProviderErr("load track details", err)
	}

	recs := make([]models.RecommendedTrack, 0, len(details))
	for trackID, rt := range details {
		rt.Score = scores[trackID]
		recs = append(recs, rt)
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if recs[i].Popularity != recs[j].Popularity {
			return recs[i].Popularity > recs[j].Popularity
		}
		return recs[i].TrackID < recs[j].TrackID
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// wrapProviderErr translates context expiry into ErrDeadlineExceeded
// and annotates everything else with the failed phase.
func (e *Engine) wrapProviderErr(phase string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", phase, ErrDeadlineExceeded)
	}
	return fmt.Errorf("failed to %s: %w", phase, err)
}

func checkDeadline(ctx context.Context) error {
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrDeadlineExceeded
		}
		return ctx.Err()
	default:
		return nil
	}
}
