package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the immutable configuration value built once in the composition
// root and passed into component constructors. No component reads ambient
// environment state after startup.
type Config struct {
	Port        string
	DatabaseURL string
	// RedisAddr selects the Redis distance cache adapter when non-empty;
	// otherwise the SQL-backed cache is used.
	RedisAddr string

	RoutingBaseURL string
	RoutingTimeout time.Duration
	SolverBaseURL  string
	SolverTimeout  time.Duration

	// HaversineFallback enables great-circle distance estimation when the
	// routing engine fails. Intended for non-production use only.
	HaversineFallback bool

	DefaultCostPerKm  float64
	DefaultRentalCost float64

	// MatrixWorkers bounds concurrent routing-engine calls during a matrix
	// build.
	MatrixWorkers int

	SeedPath string
}

// Load reads configuration from the environment, applying defaults for
// everything except the external endpoints and the database.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           Get("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RoutingBaseURL: os.Getenv("ROUTING_BASE_URL"),
		SolverBaseURL:  os.Getenv("SOLVER_BASE_URL"),
		SeedPath:       Get("SEED_PATH", "data/seeds/logistics.json"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("config: DATABASE_URL is required")
	}
	if cfg.RoutingBaseURL == "" {
		return nil, errors.New("config: ROUTING_BASE_URL is required")
	}
	if cfg.SolverBaseURL == "" {
		return nil, errors.New("config: SOLVER_BASE_URL is required")
	}

	var err error
	if cfg.HaversineFallback, err = getBool("HAVERSINE_FALLBACK", false); err != nil {
		return nil, err
	}
	if cfg.RoutingTimeout, err = getDuration("ROUTING_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}
	if cfg.SolverTimeout, err = getDuration("SOLVER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.DefaultCostPerKm, err = getFloat("DEFAULT_COST_PER_KM", 1.0); err != nil {
		return nil, err
	}
	if cfg.DefaultRentalCost, err = getFloat("DEFAULT_RENTAL_COST", 200); err != nil {
		return nil, err
	}
	if cfg.MatrixWorkers, err = getInt("MATRIX_WORKERS", 6); err != nil {
		return nil, err
	}
	if cfg.MatrixWorkers < 1 {
		return nil, fmt.Errorf("config: MATRIX_WORKERS must be positive, got %d", cfg.MatrixWorkers)
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return d, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return f, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return n, nil
}
