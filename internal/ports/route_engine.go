package ports

import (
	"context"

	"logistics-ops-service/internal/domain"
)

// RouteEngine is the external road-network service returning distance,
// duration and encoded path geometry between two coordinates. Calls are
// bounded by the transport-layer timeout; failures are not retried here.
type RouteEngine interface {
	Route(ctx context.Context, from, to domain.Coordinates) (domain.DistanceEntry, error)
}
