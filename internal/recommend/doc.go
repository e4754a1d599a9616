// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

// Package recommend implements a collaborative recommendation engine
// based on listening-history overlap.
//
// # Algorithm
//
// For a target user, the engine:
//
//  1. Loads the user's distinct listened tracks. An empty history
//     yields an empty recommendation list.
//  2. Finds similar users: users sharing at least MinSharedTracks
//     distinct tracks with the target. The overlap count is the
//     number of distinct shared tracks.
//  3. Scores candidates: every distinct track a similar user has
//     played contributes that user's overlap count to the track's
//     score. Tracks the target has already played are excluded.
//  4. Ranks by score descending, then popularity descending, then
//     track ID ascending, and truncates to the requested limit.
//
// Candidates without a PRIMARY artist credit are excluded by the data
// provider, so every result carries a primary artist name.
//
// # Design Principles
//
//   - Deterministic: same inputs produce identical output order
//   - Bounded: the caller's context deadline is honored between
//     phases; an expired deadline returns ErrDeadlineExceeded
//
// The DataProvider interface keeps this package free of database
// imports; the database package implements it.
package recommend
