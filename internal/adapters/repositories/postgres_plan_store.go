package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"logistics-ops-service/internal/domain"
)

const uniqueViolationCode = "23505"

// Postgres-backed implementation of the PlanStore port. Create writes the
// whole plan graph in one transaction; the UNIQUE (plan_date, problem_type)
// constraint closes the race two concurrent creations would otherwise win
// together.
type PostgresPlanStore struct{ DB *sql.DB }

func NewPostgresPlanStore(db *sql.DB) *PostgresPlanStore {
	return &PostgresPlanStore{DB: db}
}

func (s *PostgresPlanStore) FindByDateAndType(ctx context.Context, date time.Time, problemType domain.ProblemType) (*domain.Plan, error) {
	if s.DB == nil {
		return nil, errors.New("plan store: DB is nil")
	}

	query := planSelect + `
	WHERE plan_date = $1::date AND problem_type = $2;
	`
	row := s.DB.QueryRowContext(ctx, query, date.Format(time.DateOnly), string(problemType))
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf(
			"find plan %s/%s: %w",
			date.Format(time.DateOnly), problemType, domain.ErrNotFound,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("find plan by date and type: %w", err)
	}
	return plan, nil
}

func (s *PostgresPlanStore) Create(ctx context.Context, plan *domain.Plan, trips []domain.Trip) error {
	if s.DB == nil {
		return errors.New("plan store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (
			id, plan_date, problem_type, status,
			total_distance_km, total_cost, total_cargos, total_weight_kg,
			vehicles_used, vehicles_rented,
			cost_per_km, rental_cost, solver_response, created_by, created_at
		) VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`,
		plan.ID, plan.PlanDate.Format(time.DateOnly), string(plan.ProblemType), string(plan.Status),
		plan.TotalDistanceKm, plan.TotalCost, plan.TotalCargos, plan.TotalWeightKg,
		plan.VehiclesUsed, plan.VehiclesRented,
		plan.CostPerKm, plan.RentalCost, nullableJSON(plan.SolverResponse), plan.CreatedBy, plan.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf(
				"create plan %s/%s: %w",
				plan.PlanDate.Format(time.DateOnly), plan.ProblemType, domain.ErrPlanConflict,
			)
		}
		return fmt.Errorf("create plan: insert plan row: %w", err)
	}

	for _, route := range plan.Routes {
		stops, err := json.Marshal(route.Stops)
		if err != nil {
			return fmt.Errorf("create plan: marshal stops for route %s: %w", route.ID, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO routes (
				id, plan_id, vehicle_id, route_order,
				total_distance_km, total_duration_minutes, total_cost,
				total_weight_kg, cargo_count, geometry, stops
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
		`,
			route.ID, route.PlanID, route.VehicleID, route.RouteOrder,
			route.TotalDistanceKm, route.TotalDurationMinutes, route.TotalCost,
			route.TotalWeightKg, route.CargoCount, route.Geometry, stops,
		)
		if err != nil {
			return fmt.Errorf("create plan: insert route %s: %w", route.ID, err)
		}

		for _, a := range route.Assignments {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO cargo_assignments (id, route_id, cargo_id, pickup_order)
				VALUES ($1, $2, $3, $4);
			`, a.ID, a.RouteID, a.CargoID, a.PickupOrder)
			if err != nil {
				return fmt.Errorf("create plan: insert assignment for cargo %s: %w", a.CargoID, err)
			}

			// Cargo must still be pending; anything else means the demand
			// snapshot went stale between read and persist.
			res, err := tx.ExecContext(ctx, `
				UPDATE cargos SET status = 'assigned'
				WHERE id = $1 AND status = 'pending';
			`, a.CargoID)
			if err != nil {
				return fmt.Errorf("create plan: assign cargo %s: %w", a.CargoID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("create plan: assign cargo %s: rows affected: %w", a.CargoID, err)
			}
			if n != 1 {
				return fmt.Errorf("create plan: cargo %s is no longer pending", a.CargoID)
			}
		}
	}

	for _, trip := range trips {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trips (id, route_id, status)
			VALUES ($1, $2, $3);
		`, trip.ID, trip.RouteID, string(trip.Status))
		if err != nil {
			return fmt.Errorf("create plan: insert trip %s: %w", trip.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf(
				"create plan %s/%s: %w",
				plan.PlanDate.Format(time.DateOnly), plan.ProblemType, domain.ErrPlanConflict,
			)
		}
		return fmt.Errorf("create plan: commit tx: %w", err)
	}

	return nil
}

func (s *PostgresPlanStore) Get(ctx context.Context, id string) (*domain.Plan, error) {
	if s.DB == nil {
		return nil, errors.New("plan store: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, planSelect+` WHERE id = $1;`, id)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plan %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", id, err)
	}

	routes, err := s.loadRoutes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", id, err)
	}
	plan.Routes = routes

	trips, err := s.loadTrips(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", id, err)
	}
	plan.Trips = trips

	return plan, nil
}

func (s *PostgresPlanStore) Activate(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("plan store: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
		UPDATE plans SET status = 'active'
		WHERE id = $1 AND status = 'draft';
	`, id)
	if err != nil {
		return fmt.Errorf("activate plan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("activate plan %s: rows affected: %w", id, err)
	}
	if n == 1 {
		return nil
	}

	// Zero rows: either the plan does not exist or it is past draft.
	var exists bool
	err = s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM plans WHERE id = $1);`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("activate plan %s: check existence: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("activate plan %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("activate plan %s: not a draft: %w", id, domain.ErrInvalidTransition)
}

const planSelect = `
	SELECT
		id, plan_date, problem_type, status,
		total_distance_km, total_cost, total_cargos, total_weight_kg,
		vehicles_used, vehicles_rented,
		cost_per_km, rental_cost, solver_response, created_by, created_at
	FROM plans
`

func scanPlan(row *sql.Row) (*domain.Plan, error) {
	var p domain.Plan
	var problemType, status string
	var solverResponse []byte
	err := row.Scan(
		&p.ID, &p.PlanDate, &problemType, &status,
		&p.TotalDistanceKm, &p.TotalCost, &p.TotalCargos, &p.TotalWeightKg,
		&p.VehiclesUsed, &p.VehiclesRented,
		&p.CostPerKm, &p.RentalCost, &solverResponse, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ProblemType = domain.ProblemType(problemType)
	p.Status = domain.PlanStatus(status)
	p.SolverResponse = solverResponse
	return &p, nil
}

func (s *PostgresPlanStore) loadRoutes(ctx context.Context, planID string) ([]domain.Route, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT
			id, plan_id, vehicle_id, route_order,
			total_distance_km, total_duration_minutes, total_cost,
			total_weight_kg, cargo_count, geometry, stops
		FROM routes
		WHERE plan_id = $1
		ORDER BY route_order;
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.Route, 0, 8)
	for rows.Next() {
		var r domain.Route
		var stops []byte
		err := rows.Scan(
			&r.ID, &r.PlanID, &r.VehicleID, &r.RouteOrder,
			&r.TotalDistanceKm, &r.TotalDurationMinutes, &r.TotalCost,
			&r.TotalWeightKg, &r.CargoCount, &r.Geometry, &stops,
		)
		if err != nil {
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		if err := json.Unmarshal(stops, &r.Stops); err != nil {
			return nil, fmt.Errorf("unmarshal stops for route %s: %w", r.ID, err)
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("route row iteration: %w", err)
	}

	for i := range routes {
		assignments, err := s.loadAssignments(ctx, routes[i].ID)
		if err != nil {
			return nil, err
		}
		routes[i].Assignments = assignments
	}

	return routes, nil
}

func (s *PostgresPlanStore) loadAssignments(ctx context.Context, routeID string) ([]domain.CargoAssignment, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, route_id, cargo_id, pickup_order
		FROM cargo_assignments
		WHERE route_id = $1
		ORDER BY pickup_order;
	`, routeID)
	if err != nil {
		return nil, fmt.Errorf("query assignments for route %s: %w", routeID, err)
	}
	defer rows.Close()

	assignments := make([]domain.CargoAssignment, 0, 16)
	for rows.Next() {
		var a domain.CargoAssignment
		if err := rows.Scan(&a.ID, &a.RouteID, &a.CargoID, &a.PickupOrder); err != nil {
			return nil, fmt.Errorf("scan assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assignment row iteration: %w", err)
	}

	return assignments, nil
}

func (s *PostgresPlanStore) loadTrips(ctx context.Context, planID string) ([]domain.Trip, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT t.id, t.route_id, r.plan_id, r.vehicle_id, t.status
		FROM trips t
		JOIN routes r ON r.id = t.route_id
		WHERE r.plan_id = $1
		ORDER BY r.route_order;
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0, 8)
	for rows.Next() {
		var t domain.Trip
		var status string
		if err := rows.Scan(&t.ID, &t.RouteID, &t.PlanID, &t.VehicleID, &status); err != nil {
			return nil, fmt.Errorf("scan trip row: %w", err)
		}
		t.Status = domain.TripStatus(status)
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trip row iteration: %w", err)
	}

	return trips, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
