package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// InitSchema creates the relational schema used by the service.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS stations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			is_hub BOOLEAN NOT NULL DEFAULT FALSE,
			active BOOLEAN NOT NULL DEFAULT TRUE
		);`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			plate TEXT NOT NULL,
			capacity_kg DOUBLE PRECISION NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			status TEXT NOT NULL DEFAULT 'available'
		);`,

		`CREATE TABLE IF NOT EXISTS cargos (
			id TEXT PRIMARY KEY,
			station_id TEXT NOT NULL REFERENCES stations(id),
			weight_kg DOUBLE PRECISION NOT NULL,
			scheduled_date DATE NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending'
		);`,

		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			plan_date DATE NOT NULL,
			problem_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			total_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_cargos INTEGER NOT NULL DEFAULT 0,
			total_weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
			vehicles_used INTEGER NOT NULL DEFAULT 0,
			vehicles_rented INTEGER NOT NULL DEFAULT 0,
			cost_per_km DOUBLE PRECISION NOT NULL,
			rental_cost DOUBLE PRECISION NOT NULL,
			solver_response JSONB,
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (plan_date, problem_type)
		);`,

		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
			vehicle_id TEXT NOT NULL,
			route_order INTEGER NOT NULL,
			total_distance_km DOUBLE PRECISION NOT NULL,
			total_duration_minutes DOUBLE PRECISION NOT NULL,
			total_cost DOUBLE PRECISION NOT NULL,
			total_weight_kg DOUBLE PRECISION NOT NULL,
			cargo_count INTEGER NOT NULL,
			geometry TEXT NOT NULL DEFAULT '',
			stops JSONB NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS cargo_assignments (
			id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
			cargo_id TEXT NOT NULL REFERENCES cargos(id),
			pickup_order INTEGER NOT NULL,
			UNIQUE (route_id, cargo_id)
		);`,

		`CREATE TABLE IF NOT EXISTS trips (
			id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL UNIQUE REFERENCES routes(id) ON DELETE CASCADE,
			status TEXT NOT NULL DEFAULT 'scheduled',
			started_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ,
			actual_duration_minutes DOUBLE PRECISION,
			actual_distance_km DOUBLE PRECISION,
			actual_cost DOUBLE PRECISION
		);`,

		`CREATE TABLE IF NOT EXISTS trip_events (
			id TEXT PRIMARY KEY,
			trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			event_type TEXT NOT NULL,
			station_id TEXT,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS distance_cache (
			from_station TEXT NOT NULL,
			to_station TEXT NOT NULL,
			distance_km DOUBLE PRECISION NOT NULL,
			duration_minutes DOUBLE PRECISION NOT NULL,
			geometry TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (from_station, to_station)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_cargos_station_date
			ON cargos(station_id, scheduled_date);`,

		`CREATE INDEX IF NOT EXISTS idx_trip_events_trip
			ON trip_events(trip_id, created_at);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type stationSeed struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	IsHub  bool    `json:"is_hub"`
	Active bool    `json:"active"`
}

type vehicleSeed struct {
	ID         string  `json:"id"`
	Plate      string  `json:"plate"`
	CapacityKg float64 `json:"capacity_kg"`
	Active     bool    `json:"active"`
	Status     string  `json:"status"`
}

type cargoSeed struct {
	ID            string  `json:"id"`
	StationID     string  `json:"station_id"`
	WeightKg      float64 `json:"weight_kg"`
	ScheduledDate string  `json:"scheduled_date"`
	Status        string  `json:"status"`
}

type seedFile struct {
	Stations []stationSeed `json:"stations"`
	Vehicles []vehicleSeed `json:"vehicles"`
	Cargos   []cargoSeed   `json:"cargos"`
}

// SeedFromJSON populates stations, vehicles and cargos from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed data: read %q: %w", jsonPath, err)
	}

	var data seedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed data: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, s := range data.Stations {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("seed data: station at index %d has empty id", i)
		}
		_, err := tx.Exec(`
			INSERT INTO stations (id, name, lat, lon, is_hub, active)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, lat = EXCLUDED.lat, lon = EXCLUDED.lon,
				is_hub = EXCLUDED.is_hub, active = EXCLUDED.active;
		`, s.ID, s.Name, s.Lat, s.Lon, s.IsHub, s.Active)
		if err != nil {
			return fmt.Errorf("seed data: insert station %q: %w", s.ID, err)
		}
	}

	for i, v := range data.Vehicles {
		if strings.TrimSpace(v.ID) == "" {
			return fmt.Errorf("seed data: vehicle at index %d has empty id", i)
		}
		status := v.Status
		if status == "" {
			status = "available"
		}
		_, err := tx.Exec(`
			INSERT INTO vehicles (id, plate, capacity_kg, active, status)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET plate = EXCLUDED.plate, capacity_kg = EXCLUDED.capacity_kg,
				active = EXCLUDED.active, status = EXCLUDED.status;
		`, v.ID, v.Plate, v.CapacityKg, v.Active, status)
		if err != nil {
			return fmt.Errorf("seed data: insert vehicle %q: %w", v.ID, err)
		}
	}

	for i, c := range data.Cargos {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("seed data: cargo at index %d has empty id", i)
		}
		if _, err := time.Parse(time.DateOnly, c.ScheduledDate); err != nil {
			return fmt.Errorf("seed data: cargo %q scheduled_date %q: %w", c.ID, c.ScheduledDate, err)
		}
		status := c.Status
		if status == "" {
			status = "pending"
		}
		_, err := tx.Exec(`
			INSERT INTO cargos (id, station_id, weight_kg, scheduled_date, status)
			VALUES ($1, $2, $3, $4::date, $5)
			ON CONFLICT (id) DO UPDATE
			SET station_id = EXCLUDED.station_id, weight_kg = EXCLUDED.weight_kg,
				scheduled_date = EXCLUDED.scheduled_date, status = EXCLUDED.status;
		`, c.ID, c.StationID, c.WeightKg, c.ScheduledDate, status)
		if err != nil {
			return fmt.Errorf("seed data: insert cargo %q: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed data: commit tx: %w", err)
	}

	return nil
}
