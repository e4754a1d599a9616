// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Configuration Categories:
//
//  1. Infrastructure:
//     - Database: DuckDB configuration (path, memory, threads)
//     - Server: HTTP server configuration (port, host, timeout)
//
//  2. Domain:
//     - Stats: Daily aggregation refresh scheduling
//     - Recommend: Co-listening recommendation parameters
//
//  3. API & Observability:
//     - API: Pagination limits, CORS, rate limiting
//     - Logging: Log levels and output formats
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Stats     StatsConfig     `koanf:"stats"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path                   string `koanf:"path"`                     // Database file path, or ":memory:"
	MaxMemory              string `koanf:"max_memory"`               // DuckDB memory limit (e.g. "2GB")
	Threads                int    `koanf:"threads"`                  // 0 = runtime.NumCPU()
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // DuckDB default: true
	SkipIndexes            bool   `koanf:"skip_indexes"`             // Skip index creation (fast test setup)
	SeedDemoData           bool   `koanf:"seed_demo_data"`           // Seed catalog and events for demos
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"` // Read/write timeout for the HTTP server
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// StatsConfig controls the daily stats aggregation scheduler.
type StatsConfig struct {
	// RefreshEnabled runs the background refresh service.
	RefreshEnabled bool `koanf:"refresh_enabled"`

	// RefreshInterval is how often the scheduler recomputes recent days.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// DaysBack is how many days (including today) each scheduled run covers.
	DaysBack int `koanf:"days_back"`
}

// RecommendConfig holds co-listening recommendation parameters.
type RecommendConfig struct {
	// MinSharedTracks is the minimum number of distinct shared tracks
	// for another listener to count as similar.
	MinSharedTracks int `koanf:"min_shared_tracks"`

	// DefaultLimit is the result count used when a request omits limit.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the per-request result count.
	MaxLimit int `koanf:"max_limit"`

	// Timeout bounds a single recommendation computation.
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"` // Include caller file:line
}
