package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("requested resource not found")

// ErrPlanConflict indicates a plan already exists for the requested
// (plan date, problem type) pair. The caller must delete the existing plan
// before retrying; no solver call is made.
var ErrPlanConflict = errors.New("plan already exists for this date and problem type")

// Precondition failures: the caller must fix input or data before retrying.
var (
	ErrNoDemand   = errors.New("no stations with pending cargo for the target date")
	ErrNoHub      = errors.New("no active hub station configured")
	ErrNoVehicles = errors.New("no available vehicles")
)

// ErrRoutingUnavailable indicates the routing engine was unreachable or
// returned a failure, and the estimate fallback was disabled. Surfaced
// distinctly from solver failures so operators can tell which dependency
// is down.
var ErrRoutingUnavailable = errors.New("distance service unavailable")

// ErrSolverTimeout indicates the solver did not respond within the
// configured deadline. No plan is persisted.
var ErrSolverTimeout = errors.New("solver timed out")

// ErrSolverUnavailable indicates the solver responded with a transport-level
// failure (non-200 status). Distinct from ErrSolverTimeout so operators can
// tell a slow solver from a broken one. No plan is persisted.
var ErrSolverUnavailable = errors.New("solver unavailable")

// ErrInvalidTransition indicates a plan activation or trip transition was
// requested out of sequence.
var ErrInvalidTransition = errors.New("invalid state transition")

// StationsNotFoundError reports the exact station ids a matrix build could
// not resolve. The matrix is never partially built on bad input.
type StationsNotFoundError struct {
	IDs []string
}

func (e *StationsNotFoundError) Error() string {
	return fmt.Sprintf("stations not found: %s", strings.Join(e.IDs, ", "))
}

// SolverRejectedError carries the solver's own message for a logical
// failure (e.g. infeasible input). The solver was reachable; no plan is
// persisted.
type SolverRejectedError struct {
	Message string
}

func (e *SolverRejectedError) Error() string {
	return fmt.Sprintf("solver rejected request: %s", e.Message)
}
