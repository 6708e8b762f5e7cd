package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"logistics-ops-service/internal/api/handlers"
	"logistics-ops-service/internal/platform/obs"
	"logistics-ops-service/internal/ports"
	"logistics-ops-service/internal/services"
)

// Deps carries everything the HTTP layer needs from the composition root.
type Deps struct {
	Plans     *services.PlanBuilder
	PlanStore ports.PlanStore

	Trips     *services.TripLifecycle
	TripStore ports.TripStore

	Matrix *services.MatrixBuilder

	Stations ports.StationRepository
	Vehicles ports.VehicleRepository
	Cargos   ports.CargoRepository
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root; handlers stay unaware of
// concrete adapters.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{Plans: d.Plans, Store: d.PlanStore}
	tripHandler := &handlers.TripHandler{Lifecycle: d.Trips, Store: d.TripStore}
	resourceHandler := &handlers.ResourceHandler{
		Stations: d.Stations,
		Vehicles: d.Vehicles,
		Cargos:   d.Cargos,
	}
	adminHandler := &handlers.AdminHandler{Matrix: d.Matrix}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /plans", planHandler.Create)
	mux.HandleFunc("GET /plans/{id}", planHandler.Get)
	mux.HandleFunc("POST /plans/{id}/activate", planHandler.Activate)

	mux.HandleFunc("GET /trips/{id}", tripHandler.Get)
	mux.HandleFunc("POST /trips/{id}/start", tripHandler.Start)
	mux.HandleFunc("POST /trips/{id}/complete", tripHandler.Complete)

	mux.HandleFunc("GET /stations", resourceHandler.ListStations)
	mux.HandleFunc("GET /vehicles", resourceHandler.ListVehicles)
	mux.HandleFunc("GET /cargos", resourceHandler.ListCargos)

	mux.HandleFunc("POST /admin/distance-cache/refresh", adminHandler.RefreshDistanceCache)

	return loggingMiddleware(mux)
}
