package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/ports"
)

// HTTPClient implements the Solver port over HTTP. One call per plan
// creation, under an explicit timeout; a deadline or transport failure maps
// to domain.ErrSolverTimeout, a non-200 reply to domain.ErrSolverUnavailable,
// a logical rejection to *domain.SolverRejectedError. The raw response body
// is preserved so the plan builder can store it verbatim.
type HTTPClient struct {
	session *http.Client
	baseURL string
}

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("solver base URL is empty")
	}

	return &HTTPClient{
		session: &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Solve posts the routing problem and decodes the solver's reply.
func (c *HTTPClient) Solve(ctx context.Context, sreq ports.SolverRequest) (ports.SolverResponse, error) {
	payload, err := json.Marshal(sreq)
	if err != nil {
		return ports.SolverResponse{}, fmt.Errorf("marshal solver request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/solve", bytes.NewReader(payload))
	if err != nil {
		return ports.SolverResponse{}, fmt.Errorf("create solver request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		// Client timeouts and connection failures are indistinguishable to
		// the caller: in both cases the solver produced no answer in time.
		return ports.SolverResponse{}, fmt.Errorf("%w: %v", domain.ErrSolverTimeout, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.SolverResponse{}, fmt.Errorf("%w: read response: %v", domain.ErrSolverTimeout, err)
	}

	if resp.StatusCode != http.StatusOK {
		// The solver answered, so this is not a missed deadline.
		return ports.SolverResponse{}, fmt.Errorf(
			"%w: status %d: %s",
			domain.ErrSolverUnavailable, resp.StatusCode, strings.TrimSpace(string(body)),
		)
	}

	var decoded ports.SolverResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ports.SolverResponse{}, fmt.Errorf("decode solver response: %w", err)
	}
	decoded.Raw = body

	if !decoded.Success {
		msg := "unknown solver error"
		if decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		return ports.SolverResponse{}, &domain.SolverRejectedError{Message: msg}
	}

	return decoded, nil
}
