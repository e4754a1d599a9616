// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

// Package middleware provides HTTP middleware for request tracing and
// Prometheus instrumentation. CORS, rate limiting, and panic recovery
// come from chi's middleware ecosystem and are wired in the api package.
package middleware
