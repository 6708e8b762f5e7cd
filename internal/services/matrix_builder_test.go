package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"logistics-ops-service/internal/adapters/routing"
	"logistics-ops-service/internal/domain"
)

func testStations() map[string]domain.Station {
	return map[string]domain.Station{
		"a": {ID: "a", Name: "A", Location: domain.Coordinates{Lon: 29.0000, Lat: 41.0000}, Active: true},
		"b": {ID: "b", Name: "B", Location: domain.Coordinates{Lon: 29.1000, Lat: 41.0000}, Active: true},
		"c": {ID: "c", Name: "C", Location: domain.Coordinates{Lon: 29.0000, Lat: 41.1000}, Active: true},
	}
}

func wireEngine(engine *routing.MockEngine, stations map[string]domain.Station) {
	for _, from := range stations {
		for _, to := range stations {
			if from.ID == to.ID {
				continue
			}
			engine.SetLeg(from.Location, to.Location, domain.DistanceEntry{
				DistanceKm:      10,
				DurationMinutes: 15,
				Geometry:        "poly_" + from.ID + to.ID,
			})
		}
	}
}

func TestBuildMatrixComputesAllOrderedPairs(t *testing.T) {
	stations := testStations()
	repo := &fakeStationRepo{stations: stations}
	cache := newCountingCache()
	engine := routing.NewMockEngine()
	wireEngine(engine, stations)

	b := NewMatrixBuilder(repo, cache, engine, 6, false)
	matrix, err := b.BuildMatrix(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matrix) != 6 {
		t.Fatalf("matrix size = %d, want 6", len(matrix))
	}
	if engine.Calls() != 6 {
		t.Fatalf("engine calls = %d, want 6", engine.Calls())
	}
	if cache.puts != 6 {
		t.Fatalf("cache writes = %d, want 6", cache.puts)
	}

	leg, ok := matrix[domain.PairKey("a", "b")]
	if !ok {
		t.Fatal("missing leg a -> b")
	}
	if leg.Geometry != "poly_ab" {
		t.Fatalf("leg a -> b geometry = %q, want %q", leg.Geometry, "poly_ab")
	}
}

func TestBuildMatrixServesFromCache(t *testing.T) {
	stations := testStations()
	repo := &fakeStationRepo{stations: stations}
	cache := newCountingCache()
	engine := routing.NewMockEngine()

	ctx := context.Background()
	for _, from := range []string{"a", "b", "c"} {
		for _, to := range []string{"a", "b", "c"} {
			if from == to {
				continue
			}
			err := cache.Put(ctx, from, to, domain.DistanceEntry{DistanceKm: 5, DurationMinutes: 8, Geometry: "warm"})
			if err != nil {
				t.Fatalf("seed cache: %v", err)
			}
		}
	}

	b := NewMatrixBuilder(repo, cache, engine, 6, false)
	matrix, err := b.BuildMatrix(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matrix) != 6 {
		t.Fatalf("matrix size = %d, want 6", len(matrix))
	}
	if engine.Calls() != 0 {
		t.Fatalf("engine calls = %d, want 0 on a warm cache", engine.Calls())
	}
}

func TestBuildMatrixUnknownStationsFailFast(t *testing.T) {
	stations := testStations()
	repo := &fakeStationRepo{stations: stations}
	engine := routing.NewMockEngine()

	b := NewMatrixBuilder(repo, newCountingCache(), engine, 6, false)
	_, err := b.BuildMatrix(context.Background(), []string{"a", "zed", "b", "ghost"})

	var notFound *domain.StationsNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want StationsNotFoundError", err)
	}
	if len(notFound.IDs) != 2 || notFound.IDs[0] != "ghost" || notFound.IDs[1] != "zed" {
		t.Fatalf("missing ids = %v, want [ghost zed]", notFound.IDs)
	}
	if engine.Calls() != 0 {
		t.Fatalf("engine calls = %d, want 0 on bad input", engine.Calls())
	}
}

func TestBuildMatrixRoutingFailureFailsBuild(t *testing.T) {
	stations := testStations()
	repo := &fakeStationRepo{stations: stations}
	engine := routing.NewMockEngine()
	engine.Err = errors.New("connection refused")

	b := NewMatrixBuilder(repo, newCountingCache(), engine, 6, false)
	_, err := b.BuildMatrix(context.Background(), []string{"a", "b", "c"})

	if !errors.Is(err, domain.ErrRoutingUnavailable) {
		t.Fatalf("error = %v, want ErrRoutingUnavailable", err)
	}
}

func TestBuildMatrixFallbackEstimates(t *testing.T) {
	stations := testStations()
	repo := &fakeStationRepo{stations: stations}
	cache := newCountingCache()
	engine := routing.NewMockEngine()
	engine.Err = errors.New("connection refused")

	b := NewMatrixBuilder(repo, cache, engine, 6, true)
	matrix, err := b.BuildMatrix(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matrix) != 6 {
		t.Fatalf("matrix size = %d, want 6", len(matrix))
	}
	if cache.puts != 0 {
		t.Fatalf("cache writes = %d, want 0 for estimated legs", cache.puts)
	}

	leg := matrix[domain.PairKey("a", "b")]
	if !leg.Estimated() {
		t.Fatalf("leg a -> b geometry = %q, want empty for an estimate", leg.Geometry)
	}

	wantDist := domain.Haversine(stations["a"].Location, stations["b"].Location) * 1.3
	if math.Abs(leg.DistanceKm-wantDist) > 1e-9 {
		t.Fatalf("distance = %f, want %f", leg.DistanceKm, wantDist)
	}
	wantDur := wantDist / 50 * 60
	if math.Abs(leg.DurationMinutes-wantDur) > 1e-9 {
		t.Fatalf("duration = %f, want %f", leg.DurationMinutes, wantDur)
	}
}

func TestRefreshCacheClearsAndRebuilds(t *testing.T) {
	stations := testStations()
	repo := &fakeStationRepo{stations: stations}
	cache := newCountingCache()
	engine := routing.NewMockEngine()
	wireEngine(engine, stations)

	ctx := context.Background()
	if err := cache.Put(ctx, "a", "b", domain.DistanceEntry{DistanceKm: 999}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	b := NewMatrixBuilder(repo, cache, engine, 6, false)
	legs, err := b.RefreshCache(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if legs != 6 {
		t.Fatalf("legs rebuilt = %d, want 6", legs)
	}
	if cache.clears != 1 {
		t.Fatalf("cache clears = %d, want 1", cache.clears)
	}

	entry, ok, err := cache.Get(ctx, "a", "b")
	if err != nil || !ok {
		t.Fatalf("leg a -> b missing after refresh: ok=%v err=%v", ok, err)
	}
	if entry.DistanceKm != 10 {
		t.Fatalf("leg a -> b distance = %f, want recomputed 10", entry.DistanceKm)
	}
}
