package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"logistics-ops-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps service-layer failures onto HTTP statuses. Anything
// unrecognized is logged and surfaced as an opaque 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *domain.StationsNotFoundError
	var rejected *domain.SolverRejectedError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrPlanConflict),
		errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoDemand),
		errors.Is(err, domain.ErrNoHub),
		errors.Is(err, domain.ErrNoVehicles):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &notFound):
		writeError(w, r, http.StatusUnprocessableEntity, notFound.Error())
	case errors.Is(err, domain.ErrRoutingUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrSolverTimeout):
		writeError(w, r, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, domain.ErrSolverUnavailable):
		writeError(w, r, http.StatusBadGateway, err.Error())
	case errors.As(err, &rejected):
		writeError(w, r, http.StatusBadRequest, rejected.Error())
	default:
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody decodes exactly one JSON object from the request body,
// rejecting unknown fields and trailing content.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}
