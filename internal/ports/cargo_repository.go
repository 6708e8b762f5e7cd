package ports

import (
	"context"
	"time"

	"logistics-ops-service/internal/domain"
)

// CargoFilter narrows cargo queries; nil fields mean "no constraint".
type CargoFilter struct {
	StationID     *string
	Status        *domain.CargoStatus
	ScheduledDate *time.Time
}

// CargoRepository is the boundary for reading Cargo records. Status
// mutations happen only inside plan materialization and trip transitions,
// which the stores apply transactionally.
type CargoRepository interface {
	List(ctx context.Context, f CargoFilter) ([]domain.Cargo, error)
	// PendingByStation aggregates pending cargo per active station for the
	// given date. Stations with zero pending cargo are not returned.
	PendingByStation(ctx context.Context, date time.Time) ([]domain.StationDemand, error)
}
