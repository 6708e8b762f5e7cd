package dto

import (
	"time"

	"logistics-ops-service/internal/domain"
)

type TripEventResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	StationID *string   `json:"station_id,omitempty"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type TripResponse struct {
	ID        string `json:"id"`
	RouteID   string `json:"route_id"`
	PlanID    string `json:"plan_id"`
	VehicleID string `json:"vehicle_id"`
	Status    string `json:"status"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	ActualDurationMinutes float64 `json:"actual_duration_minutes"`
	ActualDistanceKm      float64 `json:"actual_distance_km"`
	ActualCost            float64 `json:"actual_cost"`

	PlannedDistanceKm float64 `json:"planned_distance_km"`
	PlannedCost       float64 `json:"planned_cost"`

	Events []TripEventResponse `json:"events"`
}

func FromTrip(t *domain.Trip) TripResponse {
	res := TripResponse{
		ID:        t.ID,
		RouteID:   t.RouteID,
		PlanID:    t.PlanID,
		VehicleID: t.VehicleID,
		Status:    string(t.Status),

		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,

		ActualDurationMinutes: t.ActualDurationMinutes,
		ActualDistanceKm:      t.ActualDistanceKm,
		ActualCost:            t.ActualCost,

		PlannedDistanceKm: t.PlannedDistanceKm,
		PlannedCost:       t.PlannedCost,

		Events: make([]TripEventResponse, 0, len(t.Events)),
	}

	for _, e := range t.Events {
		res.Events = append(res.Events, TripEventResponse{
			ID:        e.ID,
			Type:      string(e.Type),
			StationID: e.StationID,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}

	return res
}
