// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

/*
Package api provides the HTTP layer: Chi routing, request validation,
and JSON response envelopes.

# Endpoints

Event log:

	POST /api/v1/events/plays   append a listening event
	POST /api/v1/events/likes   record a like (409 on duplicate)
	GET  /api/v1/events         query the event log

Derived analytics:

	POST /api/v1/stats/daily/refresh?day=YYYY-MM-DD
	GET  /api/v1/stats/daily?day=YYYY-MM-DD
	POST /api/v1/popularity/reconcile

Recommendations:

	GET /api/v1/recommendations/user/{userID}?limit=N

Operational:

	GET /api/v1/health, /api/v1/health/live, /api/v1/health/ready
	GET /metrics

All JSON endpoints respond with the models.APIResponse envelope. Errors
carry a stable uppercase code (VALIDATION_ERROR, DUPLICATE_LIKE,
INVALID_LIMIT, RECOMMENDATION_TIMEOUT, NOT_FOUND, INTERNAL_ERROR).
*/
package api
