package handlers

import (
	"net/http"

	"logistics-ops-service/internal/api/dto"
	"logistics-ops-service/internal/ports"
	"logistics-ops-service/internal/services"
)

type TripHandler struct {
	Lifecycle *services.TripLifecycle
	Store     ports.TripStore
}

// Start transitions a scheduled trip to in_progress.
func (h *TripHandler) Start(w http.ResponseWriter, r *http.Request) {
	trip, err := h.Lifecycle.Start(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromTrip(trip))
}

// Complete transitions an in_progress trip to completed.
func (h *TripHandler) Complete(w http.ResponseWriter, r *http.Request) {
	trip, err := h.Lifecycle.Complete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromTrip(trip))
}

// Get returns a trip with its lifecycle events.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	trip, err := h.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromTrip(trip))
}
