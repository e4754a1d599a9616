// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tracklore/tracklore/internal/models"
)

// DataProvider defines the queries the engine needs. The database
// package implements it; tests supply an in-memory version.
type DataProvider interface {
	// UserTracks returns the distinct track IDs a user has played.
	UserTracks(ctx context.Context, userID string) ([]string, error)

	// SimilarUsers returns users sharing at least minShared distinct
	// played tracks with the given user, with overlap counts.
	SimilarUsers(ctx context.Context, userID string, minShared int) ([]models.UserOverlap, error)

	// TracksPlayedBy returns the distinct tracks played per user for
	// a set of users.
	TracksPlayedBy(ctx context.Context, userIDs []string) (map[string][]string, error)

	// TrackDetails returns title, primary artist, and popularity for
	// the given tracks, omitting tracks without a PRIMARY credit.
	TrackDetails(ctx context.Context, trackIDs []string) (map[string]models.RecommendedTrack, error)
}

// Config holds the engine's tuning parameters.
type Config struct {
	// MinSharedTracks is the minimum distinct-track overlap for a user
	// to count as similar.
	MinSharedTracks int

	// DefaultLimit is used when the caller does not cap the result.
	DefaultLimit int

	// MaxLimit caps the result size regardless of the request.
	MaxLimit int

	// Timeout bounds a single recommendation computation when the
	// caller's context has no deadline.
	Timeout time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		MinSharedTracks: 2,
		DefaultLimit:    20,
		MaxLimit:        100,
		Timeout:         10 * time.Second,
	}
}

// Validate checks config bounds.
func (c *Config) Validate() error {
	if c.MinSharedTracks < 1 {
		return fmt.Errorf("min shared tracks must be at least 1, got %d", c.MinSharedTracks)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default limit must be at least 1, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max limit %d must not be below default limit %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
