package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/platform/obs"
	"logistics-ops-service/internal/ports"
)

const (
	defaultCostPerKm  = 1.0
	defaultRentalCost = 200.0

	// rentalCapacityKg is the fixed capacity assumed for rented vehicles.
	rentalCapacityKg = 500.0
)

// PlanBuilder drives a day's routing plan into existence: it assembles
// demand and fleet data, builds the distance matrix, delegates optimization
// to the external solver, and materializes the result into a consistent
// Plan/Route/CargoAssignment/Trip graph in one transaction.
type PlanBuilder struct {
	plans  ports.PlanStore
	demand *DemandService
	matrix *MatrixBuilder
	solver ports.Solver

	costPerKm  float64
	rentalCost float64

	now func() time.Time
}

func NewPlanBuilder(
	plans ports.PlanStore,
	demand *DemandService,
	matrix *MatrixBuilder,
	solver ports.Solver,
	costPerKm, rentalCost float64,
) *PlanBuilder {
	return &PlanBuilder{
		plans:      plans,
		demand:     demand,
		matrix:     matrix,
		solver:     solver,
		costPerKm:  costPerKm,
		rentalCost: rentalCost,
		now:        time.Now,
	}
}

// CreatePlanRequest carries one plan-creation attempt. Nil cost fields fall
// back to the configured system-wide parameters.
type CreatePlanRequest struct {
	PlanDate    time.Time
	ProblemType domain.ProblemType
	CostPerKm   *float64
	RentalCost  *float64
	RequestedBy string
}

// Create runs one plan-creation attempt end to end and returns the fully
// materialized plan. Failure modes, in order: domain.ErrPlanConflict,
// domain.ErrNoDemand, matrix errors propagated unchanged, solver errors
// (domain.ErrSolverTimeout, domain.ErrSolverUnavailable,
// *domain.SolverRejectedError). No plan row exists after any failure.
func (b *PlanBuilder) Create(ctx context.Context, req CreatePlanRequest) (_ *domain.Plan, err error) {
	defer obs.Time(ctx, "plan.Create")(&err)

	if !domain.ValidProblemType(req.ProblemType) {
		return nil, fmt.Errorf("create plan: unknown problem type %q", req.ProblemType)
	}

	// Check uniqueness before doing any external work; a duplicate attempt
	// must not cost a solver call.
	if _, err := b.plans.FindByDateAndType(ctx, req.PlanDate, req.ProblemType); err == nil {
		return nil, fmt.Errorf(
			"create plan for %s/%s: %w",
			req.PlanDate.Format(time.DateOnly), req.ProblemType, domain.ErrPlanConflict,
		)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create plan: check existing plan: %w", err)
	}

	snap, err := b.demand.Build(ctx, req.PlanDate)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	if len(snap.Stations) == 0 {
		return nil, fmt.Errorf(
			"create plan for %s: %w",
			req.PlanDate.Format(time.DateOnly), domain.ErrNoDemand,
		)
	}

	ids := append([]string{snap.Hub.ID}, snap.StationIDs()...)
	matrix, err := b.matrix.BuildMatrix(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	costPerKm := b.resolveCostPerKm(req.CostPerKm)
	rentalCost := b.resolveRentalCost(req.RentalCost)

	resp, err := b.solver.Solve(ctx, buildSolverRequest(req, snap, costPerKm, rentalCost, matrix))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSolverTimeout):
			obs.SolverCalls.WithLabelValues("timeout").Inc()
		case errors.Is(err, domain.ErrSolverUnavailable):
			obs.SolverCalls.WithLabelValues("error").Inc()
		default:
			obs.SolverCalls.WithLabelValues("rejected").Inc()
		}
		return nil, fmt.Errorf("create plan: %w", err)
	}
	obs.SolverCalls.WithLabelValues("ok").Inc()

	plan, trips := b.materialize(req, resp, costPerKm, rentalCost)
	if err := b.plans.Create(ctx, plan, trips); err != nil {
		return nil, fmt.Errorf("create plan: persist: %w", err)
	}
	obs.PlansBuilt.WithLabelValues(string(req.ProblemType)).Inc()

	created, err := b.plans.Get(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("create plan: reload: %w", err)
	}
	return created, nil
}

// Activate transitions a draft plan to active. Any other current status
// fails with domain.ErrInvalidTransition.
func (b *PlanBuilder) Activate(ctx context.Context, planID string) (*domain.Plan, error) {
	if err := b.plans.Activate(ctx, planID); err != nil {
		return nil, fmt.Errorf("activate plan %s: %w", planID, err)
	}

	plan, err := b.plans.Get(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("activate plan %s: reload: %w", planID, err)
	}
	return plan, nil
}

func (b *PlanBuilder) resolveCostPerKm(override *float64) float64 {
	if override != nil && *override > 0 {
		return *override
	}
	if b.costPerKm > 0 {
		return b.costPerKm
	}
	return defaultCostPerKm
}

func (b *PlanBuilder) resolveRentalCost(override *float64) float64 {
	if override != nil && *override > 0 {
		return *override
	}
	if b.rentalCost > 0 {
		return b.rentalCost
	}
	return defaultRentalCost
}

func buildSolverRequest(
	req CreatePlanRequest,
	snap *domain.DemandSnapshot,
	costPerKm, rentalCost float64,
	matrix map[string]domain.DistanceEntry,
) ports.SolverRequest {
	stations := make([]ports.SolverStation, 0, len(snap.Stations))
	for _, d := range snap.Stations {
		cargoIDs := make([]string, 0, len(d.Cargos))
		for _, c := range d.Cargos {
			cargoIDs = append(cargoIDs, c.ID)
		}
		stations = append(stations, ports.SolverStation{
			ID:         d.Station.ID,
			Lat:        d.Station.Location.Lat,
			Lon:        d.Station.Location.Lon,
			CargoCount: d.CargoCount,
			WeightKg:   d.WeightKg,
			CargoIDs:   cargoIDs,
		})
	}

	vehicles := make([]ports.SolverVehicle, 0, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		vehicles = append(vehicles, ports.SolverVehicle{ID: v.ID, CapacityKg: v.CapacityKg})
	}

	legs := make(map[string]ports.SolverLeg, len(matrix))
	for k, e := range matrix {
		legs[k] = ports.SolverLeg{
			DistanceKm:      e.DistanceKm,
			DurationMinutes: e.DurationMinutes,
			Geometry:        e.Geometry,
		}
	}

	return ports.SolverRequest{
		PlanDate:    req.PlanDate.Format(time.DateOnly),
		ProblemType: string(req.ProblemType),
		Hub: ports.SolverStation{
			ID:  snap.Hub.ID,
			Lat: snap.Hub.Location.Lat,
			Lon: snap.Hub.Location.Lon,
		},
		Stations: stations,
		Vehicles: vehicles,
		Cost: ports.SolverCostParams{
			CostPerKm:        costPerKm,
			RentalCost:       rentalCost,
			RentalCapacityKg: rentalCapacityKg,
		},
		Matrix: legs,
	}
}

// materialize converts the solver's reply into the plan graph: the plan
// row, one route and one scheduled trip per solver route, and the cargo
// assignments in pickup order.
func (b *PlanBuilder) materialize(
	req CreatePlanRequest,
	resp ports.SolverResponse,
	costPerKm, rentalCost float64,
) (*domain.Plan, []domain.Trip) {
	plan := &domain.Plan{
		ID:          uuid.NewString(),
		PlanDate:    req.PlanDate,
		ProblemType: req.ProblemType,
		Status:      domain.PlanDraft,

		TotalDistanceKm: resp.Summary.TotalDistanceKm,
		TotalCost:       resp.Summary.TotalCost,
		TotalCargos:     resp.Summary.TotalCargos,
		TotalWeightKg:   resp.Summary.TotalWeightKg,
		VehiclesUsed:    resp.Summary.VehiclesUsed,
		VehiclesRented:  resp.Summary.VehiclesRented,

		CostPerKm:  costPerKm,
		RentalCost: rentalCost,

		SolverResponse: resp.Raw,
		CreatedBy:      req.RequestedBy,
		CreatedAt:      b.now(),
	}

	trips := make([]domain.Trip, 0, len(resp.Routes))
	for _, sr := range resp.Routes {
		route := domain.Route{
			ID:         uuid.NewString(),
			PlanID:     plan.ID,
			VehicleID:  sr.VehicleID,
			RouteOrder: sr.RouteOrder,

			TotalDistanceKm:      sr.TotalDistanceKm,
			TotalDurationMinutes: sr.TotalDurationMinutes,
			TotalCost:            sr.TotalCost,
			TotalWeightKg:        sr.TotalWeightKg,
			CargoCount:           len(sr.Cargos),
			Geometry:             sr.Geometry,
		}

		for _, stop := range sr.Stops {
			route.Stops = append(route.Stops, domain.RouteStop{
				StationID:  stop.StationID,
				CargoCount: stop.CargoCount,
				WeightKg:   stop.WeightKg,
			})
		}

		for _, c := range sr.Cargos {
			route.Assignments = append(route.Assignments, domain.CargoAssignment{
				ID:          uuid.NewString(),
				RouteID:     route.ID,
				CargoID:     c.CargoID,
				PickupOrder: c.PickupOrder,
			})
		}

		plan.Routes = append(plan.Routes, route)
		trips = append(trips, domain.Trip{
			ID:        uuid.NewString(),
			RouteID:   route.ID,
			PlanID:    plan.ID,
			VehicleID: route.VehicleID,
			Status:    domain.TripScheduled,
		})
	}

	return plan, trips
}
