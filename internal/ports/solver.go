package ports

import "context"

// SolverStation is one station with demand in a solver request.
type SolverStation struct {
	ID         string   `json:"id"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	CargoCount int      `json:"cargo_count"`
	WeightKg   float64  `json:"weight_kg"`
	CargoIDs   []string `json:"cargo_ids"`
}

type SolverVehicle struct {
	ID         string  `json:"id"`
	CapacityKg float64 `json:"capacity_kg"`
}

type SolverCostParams struct {
	CostPerKm        float64 `json:"cost_per_km"`
	RentalCost       float64 `json:"rental_cost"`
	RentalCapacityKg float64 `json:"rental_capacity_kg"`
}

// SolverLeg mirrors one distance matrix entry in the solver payload.
type SolverLeg struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
	Geometry        string  `json:"geometry"`
}

// SolverRequest is the payload sent to the external vehicle-routing solver,
// one call per plan creation. Matrix keys are ordered "from|to" pairs.
type SolverRequest struct {
	PlanDate    string               `json:"plan_date"`
	ProblemType string               `json:"problem_type"`
	Hub         SolverStation        `json:"hub"`
	Stations    []SolverStation      `json:"stations"`
	Vehicles    []SolverVehicle      `json:"vehicles"`
	Cost        SolverCostParams     `json:"cost_parameters"`
	Matrix      map[string]SolverLeg `json:"distance_matrix"`
}

type SolverSummary struct {
	TotalDistanceKm float64 `json:"total_distance_km"`
	TotalCost       float64 `json:"total_cost"`
	TotalCargos     int     `json:"total_cargos"`
	TotalWeightKg   float64 `json:"total_weight_kg"`
	VehiclesUsed    int     `json:"vehicles_used"`
	VehiclesRented  int     `json:"vehicles_rented"`
}

type SolverStop struct {
	StationID  string  `json:"station_id"`
	CargoCount int     `json:"cargo_count"`
	WeightKg   float64 `json:"weight_kg"`
}

type SolverCargo struct {
	CargoID     string `json:"cargo_id"`
	PickupOrder int    `json:"pickup_order"`
}

type SolverRoute struct {
	VehicleID            string        `json:"vehicle_id"`
	RouteOrder           int           `json:"route_order"`
	TotalDistanceKm      float64       `json:"total_distance_km"`
	TotalDurationMinutes float64       `json:"total_duration_minutes"`
	TotalCost            float64       `json:"total_cost"`
	TotalWeightKg        float64       `json:"total_weight_kg"`
	Stops                []SolverStop  `json:"stops"`
	Geometry             string        `json:"geometry"`
	Cargos               []SolverCargo `json:"cargos"`
}

type SolverError struct {
	Message string `json:"message"`
}

// SolverResponse is the solver's reply. Raw holds the undecoded body so the
// plan builder can retain it verbatim for audit.
type SolverResponse struct {
	Success bool          `json:"success"`
	Summary SolverSummary `json:"summary"`
	Routes  []SolverRoute `json:"routes"`
	Error   *SolverError  `json:"error,omitempty"`

	Raw []byte `json:"-"`
}

// Solver is the external vehicle-routing optimization service. A transport
// failure or deadline surfaces as domain.ErrSolverTimeout; a logical
// rejection surfaces as *domain.SolverRejectedError.
type Solver interface {
	Solve(ctx context.Context, req SolverRequest) (SolverResponse, error)
}
