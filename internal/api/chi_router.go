// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tracklore/tracklore/internal/middleware"
)

// Router wires handlers to HTTP routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a new router with middleware built from the
// handler's configuration.
func NewRouter(handler *Handler) *Router {
	mwCfg := DefaultChiMiddlewareConfig()
	if handler.config != nil {
		apiCfg := handler.config.API
		mwCfg.CORSAllowedOrigins = apiCfg.CORSOrigins
		if apiCfg.RateLimitReqs > 0 {
			mwCfg.RateLimitRequests = apiCfg.RateLimitReqs
		}
		if apiCfg.RateLimitWindow > 0 {
			mwCfg.RateLimitWindow = apiCfg.RateLimitWindow
		}
		mwCfg.RateLimitDisabled = apiCfg.RateLimitDisabled
	}

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwCfg),
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so it can be used with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Health endpoints get a permissive rate limit so monitoring
	// probes are never rejected.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Core API endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/events/plays", router.handler.RecordPlay)
		r.Post("/events/likes", router.handler.RecordLike)
		r.Get("/events", router.handler.ListEvents)

		r.Post("/stats/daily/refresh", router.handler.RefreshDailyStats)
		r.Get("/stats/daily", router.handler.GetDailyStats)

		r.Post("/popularity/reconcile", router.handler.ReconcilePopularity)

		r.Get("/recommendations/user/{userID}", router.handler.Recommendations)
	})

	// Prometheus metrics endpoint (scrape target, no rate limit).
	r.Handle("/metrics", promhttp.Handler())

	return r
}
