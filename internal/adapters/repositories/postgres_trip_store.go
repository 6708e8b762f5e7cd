package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"logistics-ops-service/internal/domain"
)

// Postgres-backed implementation of the TripStore port. Apply performs the
// guarded status update, the lifecycle log insert and the cargo/vehicle
// cascades in a single transaction.
type PostgresTripStore struct{ DB *sql.DB }

func NewPostgresTripStore(db *sql.DB) *PostgresTripStore {
	return &PostgresTripStore{DB: db}
}

func (s *PostgresTripStore) Get(ctx context.Context, id string) (*domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("trip store: DB is nil")
	}

	query := `
	SELECT
		t.id, t.route_id, r.plan_id, r.vehicle_id, t.status,
		t.started_at, t.completed_at,
		COALESCE(t.actual_duration_minutes, 0),
		COALESCE(t.actual_distance_km, 0),
		COALESCE(t.actual_cost, 0),
		r.total_distance_km, r.total_cost
	FROM trips t
	JOIN routes r ON r.id = t.route_id
	WHERE t.id = $1;
	`
	var t domain.Trip
	var status string
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.RouteID, &t.PlanID, &t.VehicleID, &status,
		&t.StartedAt, &t.CompletedAt,
		&t.ActualDurationMinutes, &t.ActualDistanceKm, &t.ActualCost,
		&t.PlannedDistanceKm, &t.PlannedCost,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}
	t.Status = domain.TripStatus(status)

	events, err := s.loadEvents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}
	t.Events = events

	return &t, nil
}

func (s *PostgresTripStore) Apply(ctx context.Context, tr domain.TripTransition) error {
	if s.DB == nil {
		return errors.New("trip store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply trip transition: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Guarded update: the WHERE status clause makes a stale transition a
	// zero-row update instead of a silent overwrite.
	res, err := tx.ExecContext(ctx, `
		UPDATE trips SET
			status = $2,
			started_at = COALESCE($3, started_at),
			completed_at = COALESCE($4, completed_at),
			actual_duration_minutes = COALESCE($5, actual_duration_minutes),
			actual_distance_km = COALESCE($6, actual_distance_km),
			actual_cost = COALESCE($7, actual_cost)
		WHERE id = $1 AND status = $8;
	`,
		tr.TripID, string(tr.ToStatus),
		tr.StartedAt, tr.CompletedAt,
		tr.ActualDurationMinutes, tr.ActualDistanceKm, tr.ActualCost,
		string(tr.FromStatus),
	)
	if err != nil {
		return fmt.Errorf("apply trip transition: update trip %s: %w", tr.TripID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply trip transition: rows affected: %w", err)
	}
	if n != 1 {
		return fmt.Errorf(
			"apply trip transition: trip %s is not %q: %w",
			tr.TripID, tr.FromStatus, domain.ErrInvalidTransition,
		)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trip_events (id, trip_id, event_type, station_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`,
		tr.Event.ID, tr.Event.TripID, string(tr.Event.Type),
		tr.Event.StationID, tr.Event.Note, tr.Event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("apply trip transition: insert event: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE cargos SET status = $2
		WHERE id IN (
			SELECT ca.cargo_id
			FROM cargo_assignments ca
			JOIN trips t ON t.route_id = ca.route_id
			WHERE t.id = $1
		);
	`, tr.TripID, string(tr.CargoStatus))
	if err != nil {
		return fmt.Errorf("apply trip transition: update cargos: %w", err)
	}

	// Rented vehicles have no row in the vehicles table; zero rows is fine.
	_, err = tx.ExecContext(ctx, `
		UPDATE vehicles SET status = $2
		WHERE id = (
			SELECT r.vehicle_id
			FROM trips t
			JOIN routes r ON r.id = t.route_id
			WHERE t.id = $1
		);
	`, tr.TripID, string(tr.VehicleStatus))
	if err != nil {
		return fmt.Errorf("apply trip transition: update vehicle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply trip transition: commit tx: %w", err)
	}

	return nil
}

func (s *PostgresTripStore) loadEvents(ctx context.Context, tripID string) ([]domain.TripEvent, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, trip_id, event_type, station_id, note, created_at
		FROM trip_events
		WHERE trip_id = $1
		ORDER BY created_at, id;
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("query trip events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.TripEvent, 0, 4)
	for rows.Next() {
		var e domain.TripEvent
		var eventType string
		if err := rows.Scan(&e.ID, &e.TripID, &eventType, &e.StationID, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trip event row: %w", err)
		}
		e.Type = domain.TripEventType(eventType)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trip event row iteration: %w", err)
	}

	return events, nil
}
