package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"logistics-ops-service/internal/domain"
	"logistics-ops-service/internal/ports"
)

// Postgres-backed implementation of the CargoRepository port.
type PostgresCargoRepository struct{ DB *sql.DB }

func NewPostgresCargoRepository(db *sql.DB) *PostgresCargoRepository {
	return &PostgresCargoRepository{DB: db}
}

func (r *PostgresCargoRepository) List(ctx context.Context, f ports.CargoFilter) ([]domain.Cargo, error) {
	if r.DB == nil {
		return nil, errors.New("cargo repository: DB is nil")
	}

	query := `
	SELECT id, station_id, weight_kg, scheduled_date, status
	FROM cargos
	WHERE 1=1
	`
	args := make([]any, 0, 3)
	if f.StationID != nil {
		args = append(args, *f.StationID)
		query += fmt.Sprintf(" AND station_id = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.ScheduledDate != nil {
		args = append(args, f.ScheduledDate.Format(time.DateOnly))
		query += fmt.Sprintf(" AND scheduled_date = $%d::date", len(args))
	}
	query += " ORDER BY id;"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cargos: query cargos table: %w", err)
	}
	defer rows.Close()

	cargos := make([]domain.Cargo, 0, 64)
	for rows.Next() {
		var c domain.Cargo
		var status string
		if err := rows.Scan(&c.ID, &c.StationID, &c.WeightKg, &c.ScheduledDate, &status); err != nil {
			return nil, fmt.Errorf("list cargos: scan row: %w", err)
		}
		c.Status = domain.CargoStatus(status)
		cargos = append(cargos, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cargos: row iteration: %w", err)
	}

	return cargos, nil
}

// PendingByStation joins pending cargo for the date against active stations
// and groups the rows into per-station demand, ordered by station id.
func (r *PostgresCargoRepository) PendingByStation(ctx context.Context, date time.Time) ([]domain.StationDemand, error) {
	if r.DB == nil {
		return nil, errors.New("cargo repository: DB is nil")
	}

	query := `
	SELECT
		s.id, s.name, s.lat, s.lon, s.is_hub, s.active,
		c.id, c.weight_kg, c.scheduled_date, c.status
	FROM cargos c
	JOIN stations s ON s.id = c.station_id
	WHERE c.status = 'pending'
	  AND c.scheduled_date = $1::date
	  AND s.active
	ORDER BY s.id, c.id;
	`
	rows, err := r.DB.QueryContext(ctx, query, date.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("pending cargo by station: query: %w", err)
	}
	defer rows.Close()

	demand := make([]domain.StationDemand, 0, 32)
	for rows.Next() {
		var s domain.Station
		var c domain.Cargo
		var cargoStatus string
		err := rows.Scan(
			&s.ID, &s.Name, &s.Location.Lat, &s.Location.Lon, &s.IsHub, &s.Active,
			&c.ID, &c.WeightKg, &c.ScheduledDate, &cargoStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("pending cargo by station: scan row: %w", err)
		}
		c.StationID = s.ID
		c.Status = domain.CargoStatus(cargoStatus)

		// Rows arrive grouped by station id, so a new id starts a new bucket.
		if len(demand) == 0 || demand[len(demand)-1].Station.ID != s.ID {
			demand = append(demand, domain.StationDemand{Station: s})
		}
		d := &demand[len(demand)-1]
		d.Cargos = append(d.Cargos, c)
		d.CargoCount++
		d.WeightKg += c.WeightKg
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pending cargo by station: row iteration: %w", err)
	}

	return demand, nil
}
