package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/ports"
)

// Postgres-backed implementation of the StationRepository port.
type PostgresStationRepository struct{ DB *sql.DB }

func NewPostgresStationRepository(db *sql.DB) *PostgresStationRepository {
	return &PostgresStationRepository{DB: db}
}

func (r *PostgresStationRepository) List(ctx context.Context, f ports.StationFilter) ([]domain.Station, error) {
	if r.DB == nil {
		return nil, errors.New("station repository: DB is nil")
	}

	query := `
	SELECT id, name, lat, lon, is_hub, active
	FROM stations
	WHERE 1=1
	`
	args := make([]any, 0, 2)
	if f.Active != nil {
		args = append(args, *f.Active)
		query += fmt.Sprintf(" AND active = $%d", len(args))
	}
	if f.IsHub != nil {
		args = append(args, *f.IsHub)
		query += fmt.Sprintf(" AND is_hub = $%d", len(args))
	}
	query += " ORDER BY id;"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stations: query stations table: %w", err)
	}
	defer rows.Close()

	stations := make([]domain.Station, 0, 64)
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("list stations: %w", err)
		}
		stations = append(stations, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w", err)
	}

	return stations, nil
}

func (r *PostgresStationRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Station, error) {
	if r.DB == nil {
		return nil, errors.New("station repository: DB is nil")
	}
	if len(ids) == 0 {
		return map[string]domain.Station{}, nil
	}

	query := `
	SELECT id, name, lat, lon, is_hub, active
	FROM stations
	WHERE id = ANY($1::text[]);
	`
	rows, err := r.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find stations by ids: query stations table: %w", err)
	}
	defer rows.Close()

	found := make(map[string]domain.Station, len(ids))
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("find stations by ids: %w", err)
		}
		found[s.ID] = s
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find stations by ids: row iteration: %w", err)
	}

	return found, nil
}

// Hub returns the single active hub station. Zero hubs maps to
// domain.ErrNoHub; more than one means the dataset itself is broken.
func (r *PostgresStationRepository) Hub(ctx context.Context) (domain.Station, error) {
	if r.DB == nil {
		return domain.Station{}, errors.New("station repository: DB is nil")
	}

	query := `
	SELECT id, name, lat, lon, is_hub, active
	FROM stations
	WHERE is_hub AND active
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return domain.Station{}, fmt.Errorf("find hub: query stations table: %w", err)
	}
	defer rows.Close()

	hubs := make([]domain.Station, 0, 1)
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return domain.Station{}, fmt.Errorf("find hub: %w", err)
		}
		hubs = append(hubs, s)
	}

	if err := rows.Err(); err != nil {
		return domain.Station{}, fmt.Errorf("find hub: row iteration: %w", err)
	}

	switch len(hubs) {
	case 0:
		return domain.Station{}, fmt.Errorf("find hub: %w", domain.ErrNoHub)
	case 1:
		return hubs[0], nil
	default:
		return domain.Station{}, fmt.Errorf("find hub: %d active hub stations, want exactly one", len(hubs))
	}
}

func scanStation(rows *sql.Rows) (domain.Station, error) {
	var s domain.Station
	err := rows.Scan(&s.ID, &s.Name, &s.Location.Lat, &s.Location.Lon, &s.IsHub, &s.Active)
	if err != nil {
		return domain.Station{}, fmt.Errorf("scan station row: %w", err)
	}
	return s, nil
}
