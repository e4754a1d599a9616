// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

package supervisor

import (
	"context"
	"sync/atomic"
)

// MockService is a minimal suture.Service for tests. It blocks until
// its context is canceled and counts how many times it was started.
type MockService struct {
	name       string
	serveCount atomic.Int32
}

// NewMockService creates a named mock service.
func NewMockService(name string) *MockService {
	return &MockService{name: name}
}

// Serve blocks until ctx is canceled.
func (m *MockService) Serve(ctx context.Context) error {
	m.serveCount.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

// ServeCount returns how many times Serve has been entered.
func (m *MockService) ServeCount() int {
	return int(m.serveCount.Load())
}

// String implements fmt.Stringer.
func (m *MockService) String() string {
	return m.name
}
