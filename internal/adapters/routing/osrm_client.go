package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"logistics-ops-service/internal/domain"
)

// OSRMClient implements the RouteEngine port against an OSRM-compatible
// routing service. Each call is bounded by the configured timeout; failures
// are surfaced wrapping domain.ErrRoutingUnavailable and never retried here
// (the caller decides whether to retry the whole workflow).
type OSRMClient struct {
	session *http.Client
	baseURL string
	profile string
}

func NewOSRMClient(baseURL string, timeout time.Duration) (*OSRMClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("routing engine base URL is empty")
	}

	return &OSRMClient{
		session: &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		profile: "driving",
	}, nil
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

// Route fetches distance, duration and encoded path geometry for one
// directional leg.
func (c *OSRMClient) Route(ctx context.Context, from, to domain.Coordinates) (domain.DistanceEntry, error) {
	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=polyline",
		c.baseURL, c.profile,
		from.Lon, from.Lat,
		to.Lon, to.Lat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.DistanceEntry{}, fmt.Errorf("create route request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return domain.DistanceEntry{}, fmt.Errorf("%w: %v", domain.ErrRoutingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.DistanceEntry{}, fmt.Errorf(
			"%w: status %d: %s",
			domain.ErrRoutingUnavailable, resp.StatusCode, strings.TrimSpace(string(b)),
		)
	}

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.DistanceEntry{}, fmt.Errorf("%w: decode route response: %v", domain.ErrRoutingUnavailable, err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return domain.DistanceEntry{}, fmt.Errorf("%w: engine returned code %q", domain.ErrRoutingUnavailable, decoded.Code)
	}

	r := decoded.Routes[0]
	return domain.DistanceEntry{
		DistanceKm:      r.Distance / 1000.0,
		DurationMinutes: r.Duration / 60.0,
		Geometry:        r.Geometry,
	}, nil
}
