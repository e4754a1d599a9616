// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package database

import (
	"errors"
	"fmt"
	"io"

	"github.com/tracklore/tracklore/internal/logging"
)

// ErrDuplicateLike is returned when a user attempts to like a track
// they have already liked.
var ErrDuplicateLike = errors.New("like already recorded for this user and track")

// ValidationError reports a rejected write with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// ConsistencyError reports a track whose stored popularity counter
// disagrees with the actual like count.
type ConsistencyError struct {
	TrackID string
	Stored  int64
	Actual  int64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("popularity mismatch for track %s: stored %d, actual %d", e.TrackID, e.Stored, e.Actual)
}

// closeWithLog closes a resource and logs any error
// Use this for cleanup operations where errors should be acknowledged but not fail the operation
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
