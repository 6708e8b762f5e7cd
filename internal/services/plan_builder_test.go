package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"logistics-ops-service/internal/adapters/routing"
	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/ports"
)

type planEnv struct {
	store  *fakePlanStore
	solver *fakeSolver
	plans  *PlanBuilder
}

func newPlanEnv(t *testing.T, demand []domain.StationDemand) *planEnv {
	t.Helper()

	hub := domain.Station{ID: "hub", Name: "Hub", Location: domain.Coordinates{Lon: 28.9784, Lat: 41.0082}, IsHub: true, Active: true}
	stations := map[string]domain.Station{"hub": hub}
	for _, d := range demand {
		stations[d.Station.ID] = d.Station
	}

	repo := &fakeStationRepo{stations: stations}
	engine := routing.NewMockEngine()
	wireEngine(engine, stations)

	store := newFakePlanStore()
	solver := &fakeSolver{}
	matrix := NewMatrixBuilder(repo, newCountingCache(), engine, 6, false)
	demandSvc := NewDemandService(repo, &fakeCargoRepo{demand: demand}, &fakeVehicleRepo{
		vehicles: []domain.Vehicle{{ID: "v1", CapacityKg: 750, Active: true, Status: domain.VehicleAvailable}},
	})

	return &planEnv{
		store:  store,
		solver: solver,
		plans:  NewPlanBuilder(store, demandSvc, matrix, solver, 1.5, 150),
	}
}

func twoStationDemand() []domain.StationDemand {
	return []domain.StationDemand{
		{
			Station:    domain.Station{ID: "st-1", Location: domain.Coordinates{Lon: 29.0254, Lat: 40.9819}, Active: true},
			CargoCount: 1,
			WeightKg:   120,
			Cargos:     []domain.Cargo{{ID: "c1", StationID: "st-1", WeightKg: 120}},
		},
		{
			Station:    domain.Station{ID: "st-2", Location: domain.Coordinates{Lon: 29.0061, Lat: 41.0430}, Active: true},
			CargoCount: 1,
			WeightKg:   200,
			Cargos:     []domain.Cargo{{ID: "c2", StationID: "st-2", WeightKg: 200}},
		},
	}
}

func planRequest() CreatePlanRequest {
	return CreatePlanRequest{
		PlanDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ProblemType: domain.ProblemUnlimitedFleet,
		RequestedBy: "dispatcher",
	}
}

func solvedResponse() ports.SolverResponse {
	return ports.SolverResponse{
		Success: true,
		Summary: ports.SolverSummary{
			TotalDistanceKm: 34.5,
			TotalCost:       251.75,
			TotalCargos:     2,
			TotalWeightKg:   320,
			VehiclesUsed:    1,
		},
		Routes: []ports.SolverRoute{
			{
				VehicleID:            "v1",
				RouteOrder:           1,
				TotalDistanceKm:      34.5,
				TotalDurationMinutes: 52,
				TotalCost:            251.75,
				TotalWeightKg:        320,
				Geometry:             "encoded_polyline",
				Stops: []ports.SolverStop{
					{StationID: "st-1", CargoCount: 1, WeightKg: 120},
					{StationID: "st-2", CargoCount: 1, WeightKg: 200},
				},
				Cargos: []ports.SolverCargo{
					{CargoID: "c1", PickupOrder: 1},
					{CargoID: "c2", PickupOrder: 2},
				},
			},
		},
		Raw: []byte(`{"success":true}`),
	}
}

func TestPlanCreateConflictSkipsSolver(t *testing.T) {
	env := newPlanEnv(t, twoStationDemand())
	req := planRequest()

	existing := &domain.Plan{ID: "p0", PlanDate: req.PlanDate, ProblemType: req.ProblemType, Status: domain.PlanDraft}
	if err := env.store.Create(context.Background(), existing, nil); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	env.store.createCalls = 0

	_, err := env.plans.Create(context.Background(), req)
	if !errors.Is(err, domain.ErrPlanConflict) {
		t.Fatalf("error = %v, want ErrPlanConflict", err)
	}
	if env.solver.calls != 0 {
		t.Fatalf("solver calls = %d, want 0 on conflict", env.solver.calls)
	}
	if env.store.createCalls != 0 {
		t.Fatalf("store creates = %d, want 0 on conflict", env.store.createCalls)
	}
}

func TestPlanCreateNoDemand(t *testing.T) {
	env := newPlanEnv(t, nil)

	_, err := env.plans.Create(context.Background(), planRequest())
	if !errors.Is(err, domain.ErrNoDemand) {
		t.Fatalf("error = %v, want ErrNoDemand", err)
	}
	if env.solver.calls != 0 {
		t.Fatalf("solver calls = %d, want 0 without demand", env.solver.calls)
	}
}

func TestPlanCreateSolverTimeout(t *testing.T) {
	env := newPlanEnv(t, twoStationDemand())
	env.solver.err = fmt.Errorf("solve: %w", domain.ErrSolverTimeout)

	_, err := env.plans.Create(context.Background(), planRequest())
	if !errors.Is(err, domain.ErrSolverTimeout) {
		t.Fatalf("error = %v, want ErrSolverTimeout", err)
	}
	if env.store.createCalls != 0 {
		t.Fatalf("store creates = %d, want 0 after timeout", env.store.createCalls)
	}
}

func TestPlanCreateSolverRejected(t *testing.T) {
	env := newPlanEnv(t, twoStationDemand())
	env.solver.err = &domain.SolverRejectedError{Message: "bad input"}

	_, err := env.plans.Create(context.Background(), planRequest())

	var rejected *domain.SolverRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("error = %v, want SolverRejectedError", err)
	}
	if rejected.Message != "bad input" {
		t.Fatalf("message = %q, want %q", rejected.Message, "bad input")
	}
	if env.store.createCalls != 0 {
		t.Fatalf("store creates = %d, want 0 after rejection", env.store.createCalls)
	}
}

func TestPlanCreatePersistsFullGraph(t *testing.T) {
	env := newPlanEnv(t, twoStationDemand())
	env.solver.resp = solvedResponse()

	override := 2.5
	req := planRequest()
	req.CostPerKm = &override

	plan, err := env.plans.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.Status != domain.PlanDraft {
		t.Fatalf("status = %q, want draft", plan.Status)
	}
	if plan.TotalCost != 251.75 || plan.TotalCargos != 2 {
		t.Fatalf("totals = %f/%d, want 251.75/2", plan.TotalCost, plan.TotalCargos)
	}
	if len(plan.Routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(plan.Routes))
	}
	route := plan.Routes[0]
	if len(route.Stops) != 2 || len(route.Assignments) != 2 {
		t.Fatalf("route stops/assignments = %d/%d, want 2/2", len(route.Stops), len(route.Assignments))
	}
	if route.Assignments[0].CargoID != "c1" || route.Assignments[0].PickupOrder != 1 {
		t.Fatalf("first assignment = %+v, want c1 at order 1", route.Assignments[0])
	}
	if string(plan.SolverResponse) != `{"success":true}` {
		t.Fatalf("solver response = %s, want raw body retained", plan.SolverResponse)
	}

	// The reloaded plan must surface its trips so callers can drive them.
	if len(plan.Trips) != 1 {
		t.Fatalf("trips = %d, want 1 per route", len(plan.Trips))
	}
	trip := plan.Trips[0]
	if trip.ID == "" {
		t.Fatal("trip id not set")
	}
	if trip.Status != domain.TripScheduled || trip.RouteID != route.ID {
		t.Fatalf("trip = %+v, want scheduled on route %s", trip, route.ID)
	}

	// Hub plus two stations gives six ordered matrix legs.
	if len(env.solver.last.Matrix) != 6 {
		t.Fatalf("solver matrix legs = %d, want 6", len(env.solver.last.Matrix))
	}
	if env.solver.last.Cost.CostPerKm != 2.5 {
		t.Fatalf("cost_per_km = %f, want the request override 2.5", env.solver.last.Cost.CostPerKm)
	}
	if env.solver.last.Cost.RentalCost != 150 {
		t.Fatalf("rental_cost = %f, want the configured 150", env.solver.last.Cost.RentalCost)
	}
}

func TestPlanActivateOnce(t *testing.T) {
	env := newPlanEnv(t, twoStationDemand())
	env.solver.resp = solvedResponse()

	plan, err := env.plans.Create(context.Background(), planRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	activated, err := env.plans.Activate(context.Background(), plan.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activated.Status != domain.PlanActive {
		t.Fatalf("status = %q, want active", activated.Status)
	}

	_, err = env.plans.Activate(context.Background(), plan.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("error = %v, want ErrInvalidTransition on a second activation", err)
	}
}
