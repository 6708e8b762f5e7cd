package handlers

import (
	"net/http"

	"logistics-ops-service/internal/api/dto"
	"logistics-ops-service/internal/services"
)

type AdminHandler struct {
	Matrix *services.MatrixBuilder
}

// RefreshDistanceCache clears the distance cache and recomputes all legs
// between active stations. This is the only path that ever clears the cache.
func (h *AdminHandler) RefreshDistanceCache(w http.ResponseWriter, r *http.Request) {
	legs, err := h.Matrix.RefreshCache(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RefreshCacheResponse{LegsRebuilt: legs})
}
