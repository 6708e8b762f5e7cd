package dto

import (
	"time"

	"logistics-ops-service/internal/domain"
)

type StationResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	IsHub  bool    `json:"is_hub"`
	Active bool    `json:"active"`
}

func FromStation(s domain.Station) StationResponse {
	return StationResponse{
		ID:     s.ID,
		Name:   s.Name,
		Lat:    s.Location.Lat,
		Lon:    s.Location.Lon,
		IsHub:  s.IsHub,
		Active: s.Active,
	}
}

type VehicleResponse struct {
	ID         string  `json:"id"`
	Plate      string  `json:"plate"`
	CapacityKg float64 `json:"capacity_kg"`
	Active     bool    `json:"active"`
	Status     string  `json:"status"`
}

func FromVehicle(v domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:         v.ID,
		Plate:      v.Plate,
		CapacityKg: v.CapacityKg,
		Active:     v.Active,
		Status:     string(v.Status),
	}
}

type CargoResponse struct {
	ID            string  `json:"id"`
	StationID     string  `json:"station_id"`
	WeightKg      float64 `json:"weight_kg"`
	ScheduledDate string  `json:"scheduled_date"`
	Status        string  `json:"status"`
}

func FromCargo(c domain.Cargo) CargoResponse {
	return CargoResponse{
		ID:            c.ID,
		StationID:     c.StationID,
		WeightKg:      c.WeightKg,
		ScheduledDate: c.ScheduledDate.Format(time.DateOnly),
		Status:        string(c.Status),
	}
}

type RefreshCacheResponse struct {
	LegsRebuilt int `json:"legs_rebuilt"`
}
