package dto

import (
	"time"

	"logistics-ops-service/internal/domain"
)

type CreatePlanRequest struct {
	PlanDate    string   `json:"plan_date"`
	ProblemType string   `json:"problem_type"`
	CostPerKm   *float64 `json:"cost_per_km"`
	RentalCost  *float64 `json:"rental_cost"`
	RequestedBy string   `json:"requested_by"`
}

type RouteStopResponse struct {
	StationID  string  `json:"station_id"`
	CargoCount int     `json:"cargo_count"`
	WeightKg   float64 `json:"weight_kg"`
}

type AssignmentResponse struct {
	ID          string `json:"id"`
	CargoID     string `json:"cargo_id"`
	PickupOrder int    `json:"pickup_order"`
}

type RouteResponse struct {
	ID         string `json:"id"`
	VehicleID  string `json:"vehicle_id"`
	RouteOrder int    `json:"route_order"`

	TotalDistanceKm      float64 `json:"total_distance_km"`
	TotalDurationMinutes float64 `json:"total_duration_minutes"`
	TotalCost            float64 `json:"total_cost"`
	TotalWeightKg        float64 `json:"total_weight_kg"`
	CargoCount           int     `json:"cargo_count"`
	Geometry             string  `json:"geometry"`

	// TripID identifies the execution record for this route, the id driven
	// through the trip endpoints.
	TripID     string `json:"trip_id"`
	TripStatus string `json:"trip_status"`

	Stops       []RouteStopResponse  `json:"stops"`
	Assignments []AssignmentResponse `json:"assignments"`
}

type PlanResponse struct {
	ID          string `json:"id"`
	PlanDate    string `json:"plan_date"`
	ProblemType string `json:"problem_type"`
	Status      string `json:"status"`

	TotalDistanceKm float64 `json:"total_distance_km"`
	TotalCost       float64 `json:"total_cost"`
	TotalCargos     int     `json:"total_cargos"`
	TotalWeightKg   float64 `json:"total_weight_kg"`
	VehiclesUsed    int     `json:"vehicles_used"`
	VehiclesRented  int     `json:"vehicles_rented"`

	CostPerKm  float64 `json:"cost_per_km"`
	RentalCost float64 `json:"rental_cost"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	Routes []RouteResponse `json:"routes"`
}

func FromPlan(p *domain.Plan) PlanResponse {
	res := PlanResponse{
		ID:          p.ID,
		PlanDate:    p.PlanDate.Format(time.DateOnly),
		ProblemType: string(p.ProblemType),
		Status:      string(p.Status),

		TotalDistanceKm: p.TotalDistanceKm,
		TotalCost:       p.TotalCost,
		TotalCargos:     p.TotalCargos,
		TotalWeightKg:   p.TotalWeightKg,
		VehiclesUsed:    p.VehiclesUsed,
		VehiclesRented:  p.VehiclesRented,

		CostPerKm:  p.CostPerKm,
		RentalCost: p.RentalCost,

		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,

		Routes: make([]RouteResponse, 0, len(p.Routes)),
	}

	tripsByRoute := make(map[string]domain.Trip, len(p.Trips))
	for _, t := range p.Trips {
		tripsByRoute[t.RouteID] = t
	}

	for _, route := range p.Routes {
		trip := tripsByRoute[route.ID]
		rr := RouteResponse{
			ID:         route.ID,
			VehicleID:  route.VehicleID,
			RouteOrder: route.RouteOrder,

			TotalDistanceKm:      route.TotalDistanceKm,
			TotalDurationMinutes: route.TotalDurationMinutes,
			TotalCost:            route.TotalCost,
			TotalWeightKg:        route.TotalWeightKg,
			CargoCount:           route.CargoCount,
			Geometry:             route.Geometry,

			TripID:     trip.ID,
			TripStatus: string(trip.Status),

			Stops:       make([]RouteStopResponse, 0, len(route.Stops)),
			Assignments: make([]AssignmentResponse, 0, len(route.Assignments)),
		}
		for _, s := range route.Stops {
			rr.Stops = append(rr.Stops, RouteStopResponse{
				StationID:  s.StationID,
				CargoCount: s.CargoCount,
				WeightKg:   s.WeightKg,
			})
		}
		for _, a := range route.Assignments {
			rr.Assignments = append(rr.Assignments, AssignmentResponse{
				ID:          a.ID,
				CargoID:     a.CargoID,
				PickupOrder: a.PickupOrder,
			})
		}
		res.Routes = append(res.Routes, rr)
	}

	return res
}
