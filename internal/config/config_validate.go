// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for invalid or inconsistent values.
// It is called automatically by Load() and can be called again after
// programmatic modification in tests.
func (c *Config) Validate() error {
	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Stats.validate(); err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	if err := c.Recommend.validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if err := c.Logging.validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Path == "" {
		return fmt.Errorf("path must not be empty")
	}
	if c.Threads < 0 {
		return fmt.Errorf("threads must be >= 0, got %d", c.Threads)
	}
	return nil
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

func (c *APIConfig) validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("default_page_size must be >= 1, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("max_page_size (%d) must be >= default_page_size (%d)",
			c.MaxPageSize, c.DefaultPageSize)
	}
	if !c.RateLimitDisabled {
		if c.RateLimitReqs < 1 {
			return fmt.Errorf("rate_limit_reqs must be >= 1, got %d", c.RateLimitReqs)
		}
		if c.RateLimitWindow <= 0 {
			return fmt.Errorf("rate_limit_window must be positive, got %v", c.RateLimitWindow)
		}
	}
	return nil
}

func (c *StatsConfig) validate() error {
	if !c.RefreshEnabled {
		return nil
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %v", c.RefreshInterval)
	}
	if c.DaysBack < 1 {
		return fmt.Errorf("days_back must be >= 1, got %d", c.DaysBack)
	}
	return nil
}

func (c *RecommendConfig) validate() error {
	if c.MinSharedTracks < 1 {
		return fmt.Errorf("min_shared_tracks must be >= 1, got %d", c.MinSharedTracks)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be >= 1, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit (%d) must be >= default_limit (%d)",
			c.MaxLimit, c.DefaultLimit)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

func (c *LoggingConfig) validate() error {
	switch strings.ToLower(c.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("invalid level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid format %q (expected json or console)", c.Format)
	}
	return nil
}
