// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package instruments the application using the Prometheus client library,
exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Database query performance (DuckDB)
  - Event log ingestion rates and duplicate like rejections
  - Daily stats refresh duration and row counts
  - Popularity reconciliation passes
  - Recommendation engine latency and deadline misses

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8484/metrics

All metrics are registered via promauto at package init, so importing the
package is enough to make them available to the default registry.
*/
package metrics
