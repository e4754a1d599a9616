// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

// Package services provides suture.Service wrappers for Tracklore's
// long-running components: the HTTP server and the daily stats
// refresher. Each wrapper translates a blocking run loop into
// suture's context-aware Serve pattern.
package services
