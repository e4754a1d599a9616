// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

// Package models defines the data structures shared across Tracklore.
//
// It contains the catalog entities (users, artists, tracks, albums,
// playlists), the append-only event types (listening events, like events),
// the derived aggregates (daily track stats, popularity reconciliation
// reports, recommendations), and the API response envelope.
//
// Models carry both json tags for API serialization and validate tags
// where request payloads bind to them directly.
package models
