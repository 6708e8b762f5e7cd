package ports

import (
	"context"

	"logistics-ops-service/internal/domain"
)

// VehicleFilter narrows vehicle queries; nil fields mean "no constraint".
type VehicleFilter struct {
	Active *bool
	Status *domain.VehicleStatus
}

// VehicleRepository is the boundary for reading Vehicle records.
type VehicleRepository interface {
	List(ctx context.Context, f VehicleFilter) ([]domain.Vehicle, error)
}
