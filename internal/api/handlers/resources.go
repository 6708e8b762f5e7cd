package handlers

import (
	"net/http"
	"strconv"
	"time"

	"logistics-ops-service/internal/api/dto"
	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/ports"
)

// ResourceHandler serves read-only listings of the master data the planner
// works from.
type ResourceHandler struct {
	Stations ports.StationRepository
	Vehicles ports.VehicleRepository
	Cargos   ports.CargoRepository
}

func (h *ResourceHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	var f ports.StationFilter

	active, ok, err := boolQuery(r, "active")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "active must be true or false")
		return
	}
	if ok {
		f.Active = &active
	}

	hub, ok, err := boolQuery(r, "is_hub")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "is_hub must be true or false")
		return
	}
	if ok {
		f.IsHub = &hub
	}

	stations, err := h.Stations.List(r.Context(), f)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := make([]dto.StationResponse, 0, len(stations))
	for _, s := range stations {
		res = append(res, dto.FromStation(s))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"stations": res})
}

func (h *ResourceHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	var f ports.VehicleFilter

	active, ok, err := boolQuery(r, "active")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "active must be true or false")
		return
	}
	if ok {
		f.Active = &active
	}

	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.VehicleStatus(v)
		if status != domain.VehicleAvailable && status != domain.VehicleOnRoute {
			writeError(w, r, http.StatusBadRequest, "unknown vehicle status")
			return
		}
		f.Status = &status
	}

	vehicles, err := h.Vehicles.List(r.Context(), f)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := make([]dto.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		res = append(res, dto.FromVehicle(v))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"vehicles": res})
}

func (h *ResourceHandler) ListCargos(w http.ResponseWriter, r *http.Request) {
	var f ports.CargoFilter

	if v := r.URL.Query().Get("station_id"); v != "" {
		f.StationID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.CargoStatus(v)
		switch status {
		case domain.CargoPending, domain.CargoAssigned, domain.CargoInTransit,
			domain.CargoDelivered, domain.CargoCancelled:
			f.Status = &status
		default:
			writeError(w, r, http.StatusBadRequest, "unknown cargo status")
			return
		}
	}
	if v := r.URL.Query().Get("date"); v != "" {
		date, err := time.Parse(time.DateOnly, v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		f.ScheduledDate = &date
	}

	cargos, err := h.Cargos.List(r.Context(), f)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := make([]dto.CargoResponse, 0, len(cargos))
	for _, c := range cargos {
		res = append(res, dto.FromCargo(c))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"cargos": res})
}

// boolQuery parses an optional boolean query parameter. The middle return
// reports whether the parameter was present.
func boolQuery(r *http.Request, key string) (bool, bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return false, false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false, err
	}
	return b, true, nil
}
