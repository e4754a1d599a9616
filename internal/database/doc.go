// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

/*
Package database provides DuckDB-backed storage for the music catalog,
the append-only event log, derived daily statistics, and the queries
backing the recommendation engine.

# Overview

The package wraps a single DuckDB connection pool behind the DB type.
All write paths for derived state are transactional:

  - RecordPlay appends a listening event and assigns the next listen_id
    inside the insert transaction.
  - RecordLike inserts a like event and increments the liked track's
    popularity counter in one transaction, so the counter can only
    drift through out-of-band writes.
  - RefreshDailyStats recomputes one day's per-track aggregates from
    the event log and upserts them idempotently.
  - ReconcilePopularity recomputes every track's popularity from the
    like log and repairs any drifted counters.

# Schema

Tables are created on startup via CREATE TABLE IF NOT EXISTS. The event
tables are append-only: listening_events rows are never updated or
deleted, and like_events enforces at most one like per (user, track)
through its primary key.

# Context Handling

Every exported method accepts a context.Context. Operations without a
deadline get a 30-second default timeout via ensureContext.
*/
package database
