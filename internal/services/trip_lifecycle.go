package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/ports"
)

// TripLifecycle advances trips through scheduled -> in_progress ->
// completed, cascading status updates onto the route's cargos and the
// trip's vehicle. Every transition is applied by the store as one atomic
// unit; a trip is never left in_progress with cargo or vehicle statuses
// reflecting a different phase.
type TripLifecycle struct {
	trips ports.TripStore
	now   func() time.Time
}

func NewTripLifecycle(trips ports.TripStore) *TripLifecycle {
	return &TripLifecycle{trips: trips, now: time.Now}
}

// Start transitions a scheduled trip to in_progress: records the start
// timestamp, appends a lifecycle log entry, advances the route's cargos to
// in_transit and the vehicle to on_route.
func (l *TripLifecycle) Start(ctx context.Context, tripID string) (*domain.Trip, error) {
	trip, err := l.trips.Get(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("start trip %s: %w", tripID, err)
	}

	if trip.Status != domain.TripScheduled {
		return nil, fmt.Errorf(
			"start trip %s: status is %q: %w",
			tripID, trip.Status, domain.ErrInvalidTransition,
		)
	}

	now := l.now()
	transition := domain.TripTransition{
		TripID:     tripID,
		FromStatus: domain.TripScheduled,
		ToStatus:   domain.TripInProgress,
		StartedAt:  &now,
		Event: domain.TripEvent{
			ID:        uuid.NewString(),
			TripID:    tripID,
			Type:      domain.TripEventStarted,
			Note:      "trip departed from hub",
			CreatedAt: now,
		},
		CargoStatus:   domain.CargoInTransit,
		VehicleStatus: domain.VehicleOnRoute,
	}

	if err := l.trips.Apply(ctx, transition); err != nil {
		return nil, fmt.Errorf("start trip %s: %w", tripID, err)
	}

	started, err := l.trips.Get(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("start trip %s: reload: %w", tripID, err)
	}
	return started, nil
}

// Complete transitions an in_progress trip to completed: records the
// completion timestamp and elapsed duration, defaults actual distance and
// cost to the route's planned figures, appends a lifecycle log entry,
// advances the cargos to delivered and the vehicle back to available.
func (l *TripLifecycle) Complete(ctx context.Context, tripID string) (*domain.Trip, error) {
	trip, err := l.trips.Get(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("complete trip %s: %w", tripID, err)
	}

	if trip.Status != domain.TripInProgress || trip.StartedAt == nil {
		return nil, fmt.Errorf(
			"complete trip %s: status is %q: %w",
			tripID, trip.Status, domain.ErrInvalidTransition,
		)
	}

	now := l.now()
	duration := now.Sub(*trip.StartedAt).Minutes()
	distance := trip.PlannedDistanceKm
	cost := trip.PlannedCost

	transition := domain.TripTransition{
		TripID:      tripID,
		FromStatus:  domain.TripInProgress,
		ToStatus:    domain.TripCompleted,
		CompletedAt: &now,

		ActualDurationMinutes: &duration,
		ActualDistanceKm:      &distance,
		ActualCost:            &cost,

		Event: domain.TripEvent{
			ID:        uuid.NewString(),
			TripID:    tripID,
			Type:      domain.TripEventCompleted,
			Note:      "trip returned to hub",
			CreatedAt: now,
		},
		CargoStatus:   domain.CargoDelivered,
		VehicleStatus: domain.VehicleAvailable,
	}

	if err := l.trips.Apply(ctx, transition); err != nil {
		return nil, fmt.Errorf("complete trip %s: %w", tripID, err)
	}

	completed, err := l.trips.Get(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("complete trip %s: reload: %w", tripID, err)
	}
	return completed, nil
}
