package routing

import (
	"context"
	"fmt"
	"sync"

	"logistics-ops-service/internal/domain"
)

// MockEngine is an in-memory RouteEngine for tests. It keys legs on
// coordinate pairs and counts calls; safe for concurrent use.
type MockEngine struct {
	mu    sync.Mutex
	m     map[string]domain.DistanceEntry
	calls int
	// Err, when set, fails every call.
	Err error
}

func NewMockEngine() *MockEngine {
	return &MockEngine{m: map[string]domain.DistanceEntry{}}
}

func coordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.4f,%.4f", c.Lon, c.Lat)
}

// SetLeg registers a directional leg between two coordinates.
func (e *MockEngine) SetLeg(from, to domain.Coordinates, entry domain.DistanceEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.m[coordKey(from)+"|"+coordKey(to)] = entry
}

func (e *MockEngine) Route(ctx context.Context, from, to domain.Coordinates) (domain.DistanceEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls++
	if e.Err != nil {
		return domain.DistanceEntry{}, e.Err
	}

	r, ok := e.m[coordKey(from)+"|"+coordKey(to)]
	if !ok {
		return domain.DistanceEntry{}, fmt.Errorf("missing leg %v -> %v", from, to)
	}
	return r, nil
}

// Calls returns how many times Route was invoked.
func (e *MockEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
