package ports

import (
	"context"

	"logistics-ops-service/internal/domain"
)

// DistanceCache persists computed road legs keyed on the ordered station
// pair. Entries never expire; Clear is only invoked by the explicit
// administrative refresh operation. Concurrent writers racing to fill the
// same pair are safe because the underlying route is deterministic.
type DistanceCache interface {
	// Get returns the cached entry for (from, to) and whether it exists.
	// An entry for (a, b) never satisfies a request for (b, a).
	Get(ctx context.Context, from, to string) (domain.DistanceEntry, bool, error)
	// Put upserts the entry for the ordered pair (from, to).
	Put(ctx context.Context, from, to string, entry domain.DistanceEntry) error
	// Clear deletes every entry unconditionally.
	Clear(ctx context.Context) error
}
