// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package models

import "testing"

func TestValidSource(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{SourceSearch, true},
		{SourcePlaylist, true},
		{SourceAlbum, true},
		{SourceRadio, true},
		{SourceRecs, true},
		{"", false},
		{"search", false},
		{"SHUFFLE", false},
	}

	for _, tt := range tests {
		if got := ValidSource(tt.source); got != tt.want {
			t.Errorf("ValidSource(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestValidDevice(t *testing.T) {
	tests := []struct {
		device string
		want   bool
	}{
		{DeviceMobile, true},
		{DeviceDesktop, true},
		{DeviceWeb, true},
		{DeviceTV, true},
		{"", false},
		{"tv", false},
		{"CONSOLE", false},
	}

	for _, tt := range tests {
		if got := ValidDevice(tt.device); got != tt.want {
			t.Errorf("ValidDevice(%q) = %v, want %v", tt.device, got, tt.want)
		}
	}
}
