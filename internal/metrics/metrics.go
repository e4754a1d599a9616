// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Event log ingestion
// - Daily stats refresh operations
// - Recommendation engine latency

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// Event Log Metrics
	EventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listening_events_recorded_total",
			Help: "Total number of listening events appended to the log",
		},
		[]string{"source", "device"},
	)

	LikesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "like_events_recorded_total",
			Help: "Total number of like events recorded",
		},
	)

	DuplicateLikes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "like_events_duplicates_total",
			Help: "Total number of rejected duplicate like attempts",
		},
	)

	// Daily Stats Refresh Metrics
	StatsRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stats_refresh_duration_seconds",
			Help:    "Duration of daily stats refresh operations in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	StatsRefreshRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stats_refresh_rows",
			Help:    "Number of per-track rows written by each refresh",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	StatsRefreshErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_refresh_errors_total",
			Help: "Total number of failed daily stats refreshes",
		},
	)

	StatsLastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stats_last_refresh_timestamp",
			Help: "Unix timestamp of last successful daily stats refresh",
		},
	)

	// Popularity Reconciliation Metrics
	PopularityMismatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "popularity_mismatches_total",
			Help: "Total number of popularity counter mismatches repaired",
		},
	)

	PopularityReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "popularity_reconcile_duration_seconds",
			Help:    "Duration of popularity reconciliation passes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Recommendation Engine Metrics
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation computations in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RecommendationTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_timeouts_total",
			Help: "Total number of recommendation requests that exceeded their deadline",
		},
	)

	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation lists served",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEvent records an appended listening event
func RecordEvent(source, device string) {
	EventsRecorded.WithLabelValues(source, device).Inc()
}

// RecordLike records a like event outcome
func RecordLike(duplicate bool) {
	if duplicate {
		DuplicateLikes.Inc()
		return
	}
	LikesRecorded.Inc()
}

// RecordStatsRefresh records a daily stats refresh operation
func RecordStatsRefresh(duration time.Duration, rowsWritten int64, err error) {
	StatsRefreshDuration.Observe(duration.Seconds())
	if err != nil {
		StatsRefreshErrors.Inc()
		return
	}
	StatsRefreshRows.Observe(float64(rowsWritten))
	StatsLastRefresh.Set(float64(time.Now().Unix()))
}

// RecordReconcile records a popularity reconciliation pass
func RecordReconcile(duration time.Duration, mismatches int64) {
	PopularityReconcileDuration.Observe(duration.Seconds())
	PopularityMismatches.Add(float64(mismatches))
}

// RecordRecommendation records a recommendation computation
func RecordRecommendation(duration time.Duration, timedOut bool) {
	RecommendationDuration.Observe(duration.Seconds())
	if timedOut {
		RecommendationTimeouts.Inc()
		return
	}
	RecommendationsServed.Inc()
}
