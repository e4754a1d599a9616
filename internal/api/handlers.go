// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package api

import (
	"time"

	"github.com/tracklore/tracklore/internal/cache"
	"github.com/tracklore/tracklore/internal/config"
	"github.com/tracklore/tracklore/internal/database"
	"github.com/tracklore/tracklore/internal/recommend"
)

// Version is the reported application version. Overridden at build
// time via -ldflags.
var Version = "dev"

// Handler processes HTTP requests for all API endpoints.
type Handler struct {
	db        *database.DB
	engine    *recommend.Engine
	config    *config.Config
	cache     *cache.Cache
	startTime time.Time
}

// NewHandler creates a new API handler. Read endpoints over derived
// data (daily stats, recommendations) are served from a short-lived
// cache that write endpoints invalidate.
func NewHandler(db *database.DB, engine *recommend.Engine, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		engine:    engine,
		config:    cfg,
		cache:     cache.New(time.Minute),
		startTime: time.Now(),
	}
}
