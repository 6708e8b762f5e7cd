package ports

import (
	"context"

	"logistics-ops-service/internal/domain"
)

// StationFilter narrows station queries; nil fields mean "no constraint".
type StationFilter struct {
	Active *bool
	IsHub  *bool
}

// StationRepository is the boundary for reading Station records.
type StationRepository interface {
	List(ctx context.Context, f StationFilter) ([]domain.Station, error)
	// FindByIDs returns the stations that exist among ids. Callers detect
	// missing ids by comparing against the input set.
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Station, error)
	// Hub returns the unique active hub station, or domain.ErrNoHub.
	Hub(ctx context.Context) (domain.Station, error)
}
