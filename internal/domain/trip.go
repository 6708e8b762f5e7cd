package domain

import "time"

type TripStatus string

const (
	TripScheduled  TripStatus = "scheduled"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
)

type TripEventType string

const (
	TripEventStarted   TripEventType = "trip_started"
	TripEventCompleted TripEventType = "trip_completed"
)

// TripEvent is one entry of a trip's append-only lifecycle log.
type TripEvent struct {
	ID        string
	TripID    string
	Type      TripEventType
	StationID *string
	Note      string
	CreatedAt time.Time
}

// Trip is the operational execution record of a Route, created alongside it
// with status "scheduled". Planned* fields mirror the route's planned totals
// and seed the actual figures at completion.
type Trip struct {
	ID        string
	RouteID   string
	PlanID    string
	VehicleID string
	Status    TripStatus

	StartedAt   *time.Time
	CompletedAt *time.Time

	ActualDurationMinutes float64
	ActualDistanceKm      float64
	ActualCost            float64

	PlannedDistanceKm float64
	PlannedCost       float64

	Events []TripEvent
}

// TripTransition describes one atomic lifecycle step: the trip row update,
// the log entry, and the cascading cargo/vehicle status changes. The store
// applies all of it in a single transaction, guarded on FromStatus.
type TripTransition struct {
	TripID     string
	FromStatus TripStatus
	ToStatus   TripStatus

	StartedAt   *time.Time
	CompletedAt *time.Time

	ActualDurationMinutes *float64
	ActualDistanceKm      *float64
	ActualCost            *float64

	Event TripEvent

	CargoStatus   CargoStatus
	VehicleStatus VehicleStatus
}
