package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"logistics-ops-service/internal/domain"
)

// SQLDistanceCache is a Postgres-backed cache for ordered station-pair road
// legs. The (from_station, to_station) primary key keeps at most one entry
// per directional pair; writes are idempotent upserts.
type SQLDistanceCache struct {
	DB *sql.DB
}

func NewSQLDistanceCache(db *sql.DB) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db}
}

// Get fetches the cached leg for the ordered pair (from, to).
func (s *SQLDistanceCache) Get(ctx context.Context, from, to string) (domain.DistanceEntry, bool, error) {
	if s.DB == nil {
		return domain.DistanceEntry{}, false, errors.New("distance cache: db is nil")
	}

	if from == "" || to == "" {
		return domain.DistanceEntry{}, false, errors.New("get distance cache: from and to must be non-empty")
	}

	q := `
	SELECT distance_km, duration_minutes, geometry
	FROM distance_cache
	WHERE from_station = $1
		AND to_station = $2;
	`

	var entry domain.DistanceEntry
	err := s.DB.QueryRowContext(ctx, q, from, to).Scan(
		&entry.DistanceKm,
		&entry.DurationMinutes,
		&entry.Geometry,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DistanceEntry{}, false, nil
	}
	if err != nil {
		return domain.DistanceEntry{}, false, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}

	return entry, true, nil
}

// Put upserts the leg for the ordered pair (from, to).
func (s *SQLDistanceCache) Put(ctx context.Context, from, to string, entry domain.DistanceEntry) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	if from == "" || to == "" {
		return errors.New("insert distance cache: from and to must be non-empty")
	}

	q := `
	INSERT INTO distance_cache (from_station, to_station, distance_km, duration_minutes, geometry)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (from_station, to_station) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		duration_minutes = EXCLUDED.duration_minutes,
		geometry = EXCLUDED.geometry;
	`

	if _, err := s.DB.ExecContext(ctx, q, from, to, entry.DistanceKm, entry.DurationMinutes, entry.Geometry); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q: %w", from, to, err)
	}

	return nil
}

// Clear deletes every cached leg. Used only by the explicit administrative
// refresh operation.
func (s *SQLDistanceCache) Clear(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM distance_cache;`); err != nil {
		return fmt.Errorf("clear distance cache: %w", err)
	}

	return nil
}
