package ports

import (
	"context"

	"logistics-ops-service/internal/domain"
)

// TripStore persists trips and applies lifecycle transitions.
type TripStore interface {
	// Get loads a trip with its lifecycle events and the planned route
	// totals needed to seed actual figures.
	Get(ctx context.Context, id string) (*domain.Trip, error)
	// Apply executes a transition atomically: the guarded trip update, the
	// log entry, and the cascading cargo/vehicle status changes. A guard
	// mismatch fails with domain.ErrInvalidTransition and changes nothing.
	Apply(ctx context.Context, t domain.TripTransition) error
}
