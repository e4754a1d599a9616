// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package models

// DailyTrackStat is one aggregated row of per-track per-day playback
// statistics. Rows are keyed by (TrackID, PlayDate) and overwritten on
// each refresh; a row for a day with no remaining events keeps its last
// written values until the day is refreshed again.
type DailyTrackStat struct {
	TrackID         string `json:"track_id"`
	PlayDate        string `json:"play_date"`
	Plays           int64  `json:"plays"`
	UniqueListeners int64  `json:"unique_listeners"`
}

// PopularityMismatch reports a track whose stored popularity counter
// disagreed with the actual like count.
type PopularityMismatch struct {
	TrackID string `json:"track_id"`
	Stored  int64  `json:"stored"`
	Actual  int64  `json:"actual"`
}

// ConsistencyReport summarizes a popularity reconciliation pass.
type ConsistencyReport struct {
	TracksChecked int64                `json:"tracks_checked"`
	Mismatches    []PopularityMismatch `json:"mismatches"`
	Repaired      int64                `json:"repaired"`
}
