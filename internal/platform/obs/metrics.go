package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// DistanceCacheHits counts cache lookups that avoided an engine call.
	DistanceCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "distance_cache_hits_total", Help: "Distance cache hits."},
	)
	// DistanceCacheMisses counts cache lookups that required computation.
	DistanceCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "distance_cache_misses_total", Help: "Distance cache misses."},
	)
	// RoutingCalls counts routing engine calls by outcome (ok, error, fallback).
	RoutingCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "routing_engine_calls_total", Help: "Routing engine calls by outcome."},
		[]string{"outcome"},
	)
	// SolverCalls counts solver invocations by outcome (ok, rejected, timeout, error).
	SolverCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solver_calls_total", Help: "Solver calls by outcome."},
		[]string{"outcome"},
	)
	// PlansBuilt counts successfully materialized plans by problem type.
	PlansBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plans_built_total", Help: "Plans built by problem type."},
		[]string{"problem_type"},
	)
	// MatrixBuildDuration records end-to-end matrix build durations.
	MatrixBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "matrix_build_duration_seconds", Help: "Distance matrix build duration.", Buckets: prometheus.DefBuckets},
	)
)

var regOnce sync.Once

// RegisterMetrics registers all collectors on the service registry.
func RegisterMetrics() {
	regOnce.Do(func() {
		Registry.MustRegister(DistanceCacheHits)
		Registry.MustRegister(DistanceCacheMisses)
		Registry.MustRegister(RoutingCalls)
		Registry.MustRegister(SolverCalls)
		Registry.MustRegister(PlansBuilt)
		Registry.MustRegister(MatrixBuildDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
