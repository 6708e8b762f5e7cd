package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/platform/obs"
	"logistics-ops-service/internal/ports"
)

const (
	defaultMatrixWorkers = 6

	// roadCircuityFactor inflates great-circle estimates toward realistic
	// road distances.
	roadCircuityFactor = 1.3
	// fallbackSpeedKmh converts an estimated distance into a duration.
	fallbackSpeedKmh = 50.0
)

// MatrixBuilder produces the complete pairwise distance matrix the solver
// needs, reading and writing through the distance cache and fanning cache
// misses out to the routing engine under a fixed-size worker pool.
type MatrixBuilder struct {
	stations ports.StationRepository
	cache    ports.DistanceCache
	engine   ports.RouteEngine
	workers  int
	fallback bool
}

func NewMatrixBuilder(
	stations ports.StationRepository,
	cache ports.DistanceCache,
	engine ports.RouteEngine,
	workers int,
	fallback bool,
) *MatrixBuilder {
	if workers < 1 {
		workers = defaultMatrixWorkers
	}
	return &MatrixBuilder{
		stations: stations,
		cache:    cache,
		engine:   engine,
		workers:  workers,
		fallback: fallback,
	}
}

type pairJob struct {
	from, to domain.Station
}

type pairResult struct {
	key   string
	entry domain.DistanceEntry
	err   error
}

// BuildMatrix returns entries for all N×(N−1) ordered pairs over the given
// station ids, keyed with domain.PairKey. Unknown ids fail the whole build
// with a StationsNotFoundError before any network call; a routing failure
// fails the whole build unless the estimate fallback is enabled.
func (b *MatrixBuilder) BuildMatrix(ctx context.Context, stationIDs []string) (_ map[string]domain.DistanceEntry, err error) {
	defer obs.Time(ctx, "matrix.Build")(&err)
	start := time.Now()

	seen := make(map[string]struct{}, len(stationIDs))
	ids := make([]string, 0, len(stationIDs))
	for _, id := range stationIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	found, err := b.stations.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("build matrix: resolve stations: %w", err)
	}

	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &domain.StationsNotFoundError{IDs: missing}
	}

	matrix := make(map[string]domain.DistanceEntry, len(ids)*(len(ids)-1))
	misses := make([]pairJob, 0)

	// Consult the cache for every ordered pair up front; only misses reach
	// the worker pool.
	for _, fromID := range ids {
		for _, toID := range ids {
			if fromID == toID {
				continue
			}

			entry, ok, err := b.cache.Get(ctx, fromID, toID)
			if err != nil {
				return nil, fmt.Errorf("build matrix: cache lookup %q -> %q: %w", fromID, toID, err)
			}
			if ok {
				obs.DistanceCacheHits.Inc()
				matrix[domain.PairKey(fromID, toID)] = entry
				continue
			}

			obs.DistanceCacheMisses.Inc()
			misses = append(misses, pairJob{from: found[fromID], to: found[toID]})
		}
	}

	if len(misses) > 0 {
		if err := b.fillMisses(ctx, misses, matrix); err != nil {
			return nil, fmt.Errorf("build matrix: %w", err)
		}
	}

	obs.MatrixBuildDuration.Observe(time.Since(start).Seconds())
	return matrix, nil
}

// fillMisses resolves cache misses through a fixed pool of workers sharing
// one job queue. All pairs must complete; the first failure fails the build.
func (b *MatrixBuilder) fillMisses(ctx context.Context, misses []pairJob, matrix map[string]domain.DistanceEntry) error {
	workers := b.workers
	if workers > len(misses) {
		workers = len(misses)
	}

	jobs := make(chan pairJob)
	results := make(chan pairResult, len(misses))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				entry, err := b.fill(ctx, j.from, j.to)
				results <- pairResult{key: domain.PairKey(j.from.ID, j.to.ID), entry: entry, err: err}
			}
		}()
	}

	for _, j := range misses {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	close(results)

	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		// Keys never collide: each ordered pair is queued exactly once.
		matrix[res.key] = res.entry
	}

	return firstErr
}

// Get is the single-pair unit the matrix builder composes: consult the
// cache, fall back to computing the leg and storing it.
func (b *MatrixBuilder) Get(ctx context.Context, from, to domain.Station) (domain.DistanceEntry, error) {
	entry, ok, err := b.cache.Get(ctx, from.ID, to.ID)
	if err != nil {
		return domain.DistanceEntry{}, fmt.Errorf("get distance: cache lookup %q -> %q: %w", from.ID, to.ID, err)
	}
	if ok {
		obs.DistanceCacheHits.Inc()
		return entry, nil
	}

	obs.DistanceCacheMisses.Inc()
	return b.fill(ctx, from, to)
}

// fill computes one leg via the routing engine (or the estimator when
// enabled) and writes engine results through to the cache.
func (b *MatrixBuilder) fill(ctx context.Context, from, to domain.Station) (domain.DistanceEntry, error) {
	entry, err := b.engine.Route(ctx, from.Location, to.Location)
	if err != nil {
		obs.RoutingCalls.WithLabelValues("error").Inc()

		if b.fallback {
			obs.RoutingCalls.WithLabelValues("fallback").Inc()
			return estimateLeg(from, to), nil
		}

		if errors.Is(err, domain.ErrRoutingUnavailable) {
			return domain.DistanceEntry{}, fmt.Errorf("route %q -> %q: %w", from.ID, to.ID, err)
		}
		return domain.DistanceEntry{}, fmt.Errorf("route %q -> %q: %w (%v)", from.ID, to.ID, domain.ErrRoutingUnavailable, err)
	}

	obs.RoutingCalls.WithLabelValues("ok").Inc()

	if err := b.cache.Put(ctx, from.ID, to.ID, entry); err != nil {
		log.Printf("distance cache write failed: %v", err)
	}

	return entry, nil
}

// RefreshCache deletes every cached leg, then recomputes the full pairwise
// matrix over all active stations. Only the explicit administrative refresh
// operation calls this; the cache is never cleared implicitly. Returns the
// number of recomputed legs.
func (b *MatrixBuilder) RefreshCache(ctx context.Context) (_ int, err error) {
	defer obs.Time(ctx, "matrix.RefreshCache")(&err)

	active := true
	stations, err := b.stations.List(ctx, ports.StationFilter{Active: &active})
	if err != nil {
		return 0, fmt.Errorf("refresh cache: list stations: %w", err)
	}

	if err := b.cache.Clear(ctx); err != nil {
		return 0, fmt.Errorf("refresh cache: %w", err)
	}

	if len(stations) < 2 {
		return 0, nil
	}

	ids := make([]string, 0, len(stations))
	for _, s := range stations {
		ids = append(ids, s.ID)
	}

	matrix, err := b.BuildMatrix(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("refresh cache: %w", err)
	}

	return len(matrix), nil
}

// estimateLeg produces a great-circle estimate with empty geometry.
// Estimated legs are never written to the cache.
func estimateLeg(from, to domain.Station) domain.DistanceEntry {
	distanceKm := domain.Haversine(from.Location, to.Location) * roadCircuityFactor
	return domain.DistanceEntry{
		DistanceKm:      distanceKm,
		DurationMinutes: distanceKm / fallbackSpeedKmh * 60,
		Geometry:        "",
	}
}
