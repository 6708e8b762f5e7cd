package ports

import (
	"context"
	"time"

	"logistics-ops-service/internal/domain"
)

// PlanStore persists the plan graph. Create writes the plan, its routes,
// trips and cargo assignments, and advances assigned cargos to "assigned",
// all in one transaction; partial failure leaves no rows behind.
type PlanStore interface {
	// FindByDateAndType returns the plan for the pair, or domain.ErrNotFound.
	FindByDateAndType(ctx context.Context, date time.Time, problemType domain.ProblemType) (*domain.Plan, error)
	// Create atomically persists the full plan graph. A concurrent duplicate
	// for the same (date, problem type) fails with domain.ErrPlanConflict
	// via the storage-level uniqueness constraint.
	Create(ctx context.Context, plan *domain.Plan, trips []domain.Trip) error
	// Get loads a plan with its routes, assignments and trips.
	Get(ctx context.Context, id string) (*domain.Plan, error)
	// Activate transitions the plan draft -> active. A non-draft plan fails
	// with domain.ErrInvalidTransition.
	Activate(ctx context.Context, id string) error
}
