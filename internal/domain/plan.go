package domain

import "time"

type ProblemType string

const (
	ProblemUnlimitedFleet    ProblemType = "unlimited_fleet"
	ProblemFleetCappedCount  ProblemType = "fleet_capped_by_count"
	ProblemFleetCappedWeight ProblemType = "fleet_capped_by_weight"
)

// ValidProblemType reports whether p is one of the known problem types.
func ValidProblemType(p ProblemType) bool {
	switch p {
	case ProblemUnlimitedFleet, ProblemFleetCappedCount, ProblemFleetCappedWeight:
		return true
	}
	return false
}

type PlanStatus string

const (
	PlanDraft  PlanStatus = "draft"
	PlanActive PlanStatus = "active"
)

// Plan is a persisted daily routing decision for a given problem type.
// At most one Plan exists per (PlanDate, ProblemType); it is created only
// through the plan builder and transitions draft -> active exactly once.
type Plan struct {
	ID          string
	PlanDate    time.Time
	ProblemType ProblemType
	Status      PlanStatus

	TotalDistanceKm float64
	TotalCost       float64
	TotalCargos     int
	TotalWeightKg   float64
	VehiclesUsed    int
	VehiclesRented  int

	CostPerKm  float64
	RentalCost float64

	// SolverResponse is the raw solver reply, retained verbatim for audit.
	SolverResponse []byte

	CreatedBy string
	CreatedAt time.Time

	Routes []Route
	// Trips holds the execution record for each route (one per route), so a
	// loaded plan tells the caller which trip ids to drive.
	Trips []Trip
}

// RouteStop is one entry of a route's per-stop breakdown.
type RouteStop struct {
	StationID  string  `json:"station_id"`
	CargoCount int     `json:"cargo_count"`
	WeightKg   float64 `json:"weight_kg"`
}

// Route is one vehicle's itinerary within a Plan. Routes are created in bulk
// at plan creation and never updated independently.
type Route struct {
	ID         string
	PlanID     string
	VehicleID  string
	RouteOrder int

	TotalDistanceKm      float64
	TotalDurationMinutes float64
	TotalCost            float64
	TotalWeightKg        float64
	CargoCount           int
	Geometry             string

	Stops       []RouteStop
	Assignments []CargoAssignment
}

// CargoAssignment binds a Cargo to a Route at a pickup position.
type CargoAssignment struct {
	ID          string
	RouteID     string
	CargoID     string
	PickupOrder int
}

// StationDemand aggregates the pending cargo load at one station for a date.
type StationDemand struct {
	Station    Station
	CargoCount int
	WeightKg   float64
	Cargos     []Cargo
}

// DemandSnapshot is the transient input to plan building: stations that need
// a stop, the hub, and the fleet available on the target date.
type DemandSnapshot struct {
	Date     time.Time
	Hub      Station
	Stations []StationDemand
	Vehicles []Vehicle
}

// StationIDs returns the demand station ids in snapshot order.
func (s *DemandSnapshot) StationIDs() []string {
	ids := make([]string, 0, len(s.Stations))
	for _, d := range s.Stations {
		ids = append(ids, d.Station.ID)
	}
	return ids
}
