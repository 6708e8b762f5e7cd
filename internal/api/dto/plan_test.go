package dto

import (
	"testing"
	"time"

	"logistics-ops-service/internal/domain"
)

func TestFromPlanExposesTripPerRoute(t *testing.T) {
	plan := &domain.Plan{
		ID:          "p1",
		PlanDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ProblemType: domain.ProblemUnlimitedFleet,
		Status:      domain.PlanDraft,
		Routes: []domain.Route{
			{ID: "r1", PlanID: "p1", VehicleID: "v1", RouteOrder: 1},
			{ID: "r2", PlanID: "p1", VehicleID: "v2", RouteOrder: 2},
		},
		Trips: []domain.Trip{
			{ID: "t1", RouteID: "r1", PlanID: "p1", Status: domain.TripScheduled},
			{ID: "t2", RouteID: "r2", PlanID: "p1", Status: domain.TripInProgress},
		},
	}

	res := FromPlan(plan)

	if len(res.Routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(res.Routes))
	}
	if res.Routes[0].TripID != "t1" || res.Routes[0].TripStatus != "scheduled" {
		t.Fatalf(
			"route r1 trip = %s/%s, want t1/scheduled",
			res.Routes[0].TripID, res.Routes[0].TripStatus,
		)
	}
	if res.Routes[1].TripID != "t2" || res.Routes[1].TripStatus != "in_progress" {
		t.Fatalf(
			"route r2 trip = %s/%s, want t2/in_progress",
			res.Routes[1].TripID, res.Routes[1].TripStatus,
		)
	}
}
