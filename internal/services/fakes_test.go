package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/ports"
)

type fakeStationRepo struct {
	stations map[string]domain.Station
}

func (r *fakeStationRepo) List(ctx context.Context, f ports.StationFilter) ([]domain.Station, error) {
	ids := make([]string, 0, len(r.stations))
	for id := range r.stations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.Station, 0, len(ids))
	for _, id := range ids {
		s := r.stations[id]
		if f.Active != nil && s.Active != *f.Active {
			continue
		}
		if f.IsHub != nil && s.IsHub != *f.IsHub {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStationRepo) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Station, error) {
	found := make(map[string]domain.Station, len(ids))
	for _, id := range ids {
		if s, ok := r.stations[id]; ok {
			found[id] = s
		}
	}
	return found, nil
}

func (r *fakeStationRepo) Hub(ctx context.Context) (domain.Station, error) {
	for _, s := range r.stations {
		if s.IsHub && s.Active {
			return s, nil
		}
	}
	return domain.Station{}, fmt.Errorf("find hub: %w", domain.ErrNoHub)
}

// countingCache is an in-memory DistanceCache that tracks writes and clears.
type countingCache struct {
	mu     sync.Mutex
	m      map[string]domain.DistanceEntry
	puts   int
	clears int
}

func newCountingCache() *countingCache {
	return &countingCache{m: map[string]domain.DistanceEntry{}}
}

func (c *countingCache) Get(ctx context.Context, from, to string) (domain.DistanceEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[domain.PairKey(from, to)]
	return e, ok, nil
}

func (c *countingCache) Put(ctx context.Context, from, to string, entry domain.DistanceEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[domain.PairKey(from, to)] = entry
	c.puts++
	return nil
}

func (c *countingCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = map[string]domain.DistanceEntry{}
	c.clears++
	return nil
}

type fakeCargoRepo struct {
	demand []domain.StationDemand
}

func (r *fakeCargoRepo) List(ctx context.Context, f ports.CargoFilter) ([]domain.Cargo, error) {
	return nil, nil
}

func (r *fakeCargoRepo) PendingByStation(ctx context.Context, date time.Time) ([]domain.StationDemand, error) {
	return r.demand, nil
}

type fakeVehicleRepo struct {
	vehicles []domain.Vehicle
}

func (r *fakeVehicleRepo) List(ctx context.Context, f ports.VehicleFilter) ([]domain.Vehicle, error) {
	out := make([]domain.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		if f.Active != nil && v.Active != *f.Active {
			continue
		}
		if f.Status != nil && v.Status != *f.Status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type fakePlanStore struct {
	mu          sync.Mutex
	byID        map[string]*domain.Plan
	trips       map[string][]domain.Trip
	createCalls int
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{
		byID:  map[string]*domain.Plan{},
		trips: map[string][]domain.Trip{},
	}
}

func (s *fakePlanStore) FindByDateAndType(ctx context.Context, date time.Time, problemType domain.ProblemType) (*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.PlanDate.Format(time.DateOnly) == date.Format(time.DateOnly) && p.ProblemType == problemType {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakePlanStore) Create(ctx context.Context, plan *domain.Plan, trips []domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	cp := *plan
	s.byID[plan.ID] = &cp
	s.trips[plan.ID] = trips
	return nil
}

func (s *fakePlanStore) Get(ctx context.Context, id string) (*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	cp.Trips = append([]domain.Trip(nil), s.trips[id]...)
	return &cp, nil
}

func (s *fakePlanStore) Activate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Status != domain.PlanDraft {
		return domain.ErrInvalidTransition
	}
	p.Status = domain.PlanActive
	return nil
}

type fakeSolver struct {
	resp  ports.SolverResponse
	err   error
	calls int
	last  ports.SolverRequest
}

func (s *fakeSolver) Solve(ctx context.Context, req ports.SolverRequest) (ports.SolverResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return ports.SolverResponse{}, s.err
	}
	return s.resp, nil
}

// fakeTripStore applies transitions in memory and records the cascading
// cargo/vehicle statuses a real store would write. The cargo cascade
// resolves the trip's route assignments and flips every cargo on the route,
// mirroring the SQL fan-out.
type fakeTripStore struct {
	mu            sync.Mutex
	trips         map[string]*domain.Trip
	assignments   map[string][]string
	cargoStatus   map[string]domain.CargoStatus
	vehicleStatus map[string]domain.VehicleStatus
}

func newFakeTripStore(trips ...domain.Trip) *fakeTripStore {
	s := &fakeTripStore{
		trips:         map[string]*domain.Trip{},
		assignments:   map[string][]string{},
		cargoStatus:   map[string]domain.CargoStatus{},
		vehicleStatus: map[string]domain.VehicleStatus{},
	}
	for i := range trips {
		t := trips[i]
		s.trips[t.ID] = &t
	}
	return s
}

func (s *fakeTripStore) assign(routeID string, cargoIDs ...string) {
	s.assignments[routeID] = cargoIDs
}

func (s *fakeTripStore) Get(ctx context.Context, id string) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	cp.Events = append([]domain.TripEvent(nil), t.Events...)
	return &cp, nil
}

func (s *fakeTripStore) Apply(ctx context.Context, tr domain.TripTransition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tr.TripID]
	if !ok {
		return domain.ErrNotFound
	}
	if t.Status != tr.FromStatus {
		return domain.ErrInvalidTransition
	}

	t.Status = tr.ToStatus
	if tr.StartedAt != nil {
		t.StartedAt = tr.StartedAt
	}
	if tr.CompletedAt != nil {
		t.CompletedAt = tr.CompletedAt
	}
	if tr.ActualDurationMinutes != nil {
		t.ActualDurationMinutes = *tr.ActualDurationMinutes
	}
	if tr.ActualDistanceKm != nil {
		t.ActualDistanceKm = *tr.ActualDistanceKm
	}
	if tr.ActualCost != nil {
		t.ActualCost = *tr.ActualCost
	}
	t.Events = append(t.Events, tr.Event)

	for _, cargoID := range s.assignments[t.RouteID] {
		s.cargoStatus[cargoID] = tr.CargoStatus
	}
	s.vehicleStatus[t.VehicleID] = tr.VehicleStatus
	return nil
}
