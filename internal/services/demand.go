package services

import (
	"context"
	"fmt"
	"time"

	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/ports"
)

// DemandService assembles the transient demand snapshot for a target date:
// stations that need a stop, the hub, and the available fleet.
type DemandService struct {
	stations ports.StationRepository
	cargos   ports.CargoRepository
	vehicles ports.VehicleRepository
}

func NewDemandService(
	stations ports.StationRepository,
	cargos ports.CargoRepository,
	vehicles ports.VehicleRepository,
) *DemandService {
	return &DemandService{stations: stations, cargos: cargos, vehicles: vehicles}
}

// Build fails with domain.ErrNoHub when no active hub exists and with
// domain.ErrNoVehicles when the available fleet is empty; plan building
// cannot proceed in either case. Stations with zero pending cargo are not
// part of the snapshot.
func (s *DemandService) Build(ctx context.Context, date time.Time) (*domain.DemandSnapshot, error) {
	hub, err := s.stations.Hub(ctx)
	if err != nil {
		return nil, fmt.Errorf("build demand snapshot: %w", err)
	}

	demand, err := s.cargos.PendingByStation(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("build demand snapshot: pending cargo: %w", err)
	}

	active := true
	available := domain.VehicleAvailable
	vehicles, err := s.vehicles.List(ctx, ports.VehicleFilter{Active: &active, Status: &available})
	if err != nil {
		return nil, fmt.Errorf("build demand snapshot: list vehicles: %w", err)
	}
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("build demand snapshot: %w", domain.ErrNoVehicles)
	}

	return &domain.DemandSnapshot{
		Date:     date,
		Hub:      hub,
		Stations: demand,
		Vehicles: vehicles,
	}, nil
}
