// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

// Package config provides layered configuration loading for Tracklore.
//
// Configuration is loaded via Koanf v2 from three sources, highest
// priority last:
//
//  1. Built-in defaults for every setting
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (DUCKDB_PATH, HTTP_PORT, LOG_LEVEL, ...)
//
// The resulting Config is validated once and is immutable afterwards,
// making it safe for concurrent reads from every component.
package config
