package handlers

import (
	"net/http"
	"time"

	"logistics-ops-service/internal/api/dto"
	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/ports"
	"logistics-ops-service/internal/services"
)

type PlanHandler struct {
	Plans *services.PlanBuilder
	Store ports.PlanStore
}

// Create builds and persists a draft plan for the requested date and
// problem type.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	planDate, err := time.Parse(time.DateOnly, req.PlanDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "plan_date must be YYYY-MM-DD")
		return
	}

	problemType := domain.ProblemType(req.ProblemType)
	if !domain.ValidProblemType(problemType) {
		writeError(w, r, http.StatusBadRequest, "unknown problem_type")
		return
	}

	plan, err := h.Plans.Create(r.Context(), services.CreatePlanRequest{
		PlanDate:    planDate,
		ProblemType: problemType,
		CostPerKm:   req.CostPerKm,
		RentalCost:  req.RentalCost,
		RequestedBy: req.RequestedBy,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.FromPlan(plan))
}

// Activate transitions a draft plan to active.
func (h *PlanHandler) Activate(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Plans.Activate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromPlan(plan))
}

// Get returns a plan with its routes and assignments.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromPlan(plan))
}
