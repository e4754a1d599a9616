// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package recommend

import "errors"

// ErrInvalidLimit is returned when the requested result limit is zero
// or negative.
var ErrInvalidLimit = errors.New("recommendation limit must be positive")

// ErrDeadlineExceeded is returned when the caller's deadline expires
// before the recommendation computation finishes.
var ErrDeadlineExceeded = errors.New("recommendation deadline exceeded")
