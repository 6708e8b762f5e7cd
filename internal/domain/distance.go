package domain

// DistanceEntry is a computed road leg between two stations.
//
// An empty Geometry means no road geometry is available for the leg; that is
// the contract for estimated (great-circle fallback) results, which never
// carry an encoded path.
type DistanceEntry struct {
	DistanceKm      float64
	DurationMinutes float64
	Geometry        string
}

// Estimated reports whether the entry came from the fallback estimator
// rather than the routing engine.
func (e DistanceEntry) Estimated() bool { return e.Geometry == "" }

// PairKey builds the ordered-pair key used by the distance cache and the
// matrix. Road distances are directional, so (a,b) and (b,a) are distinct.
func PairKey(from, to string) string { return from + "|" + to }
