package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"

	"logistics-ops-service/internal/adapters/cache"
	"logistics-ops-service/internal/adapters/repositories"
	"logistics-ops-service/internal/adapters/routing"
	"logistics-ops-service/internal/adapters/solver"
	"logistics-ops-service/internal/api"
	"logistics-ops-service/internal/config"
	"logistics-ops-service/internal/platform/db"
	"logistics-ops-service/internal/platform/obs"
	"logistics-ops-service/internal/ports"
	"logistics-ops-service/internal/services"
)

// main is the application composition root. It wires concrete adapters
// (Postgres, Redis, the routing engine, the solver) behind ports and starts
// the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	obs.RegisterMetrics()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	var distanceCache ports.DistanceCache = cache.NewSQLDistanceCache(database)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		distanceCache = cache.NewRedisDistanceCache(rdb)
		log.Printf("Using Redis distance cache addr=%s", cfg.RedisAddr)
	}

	engine, err := routing.NewOSRMClient(cfg.RoutingBaseURL, cfg.RoutingTimeout)
	if err != nil {
		log.Fatal(err)
	}
	solverClient, err := solver.NewHTTPClient(cfg.SolverBaseURL, cfg.SolverTimeout)
	if err != nil {
		log.Fatal(err)
	}

	stationRepo := repositories.NewPostgresStationRepository(database)
	vehicleRepo := repositories.NewPostgresVehicleRepository(database)
	cargoRepo := repositories.NewPostgresCargoRepository(database)
	planStore := repositories.NewPostgresPlanStore(database)
	tripStore := repositories.NewPostgresTripStore(database)

	matrix := services.NewMatrixBuilder(
		stationRepo, distanceCache, engine,
		cfg.MatrixWorkers, cfg.HaversineFallback,
	)
	demand := services.NewDemandService(stationRepo, cargoRepo, vehicleRepo)
	planBuilder := services.NewPlanBuilder(
		planStore, demand, matrix, solverClient,
		cfg.DefaultCostPerKm, cfg.DefaultRentalCost,
	)
	tripLifecycle := services.NewTripLifecycle(tripStore)

	router := api.NewRouter(api.Deps{
		Plans:     planBuilder,
		PlanStore: planStore,
		Trips:     tripLifecycle,
		TripStore: tripStore,
		Matrix:    matrix,
		Stations:  stationRepo,
		Vehicles:  vehicleRepo,
		Cargos:    cargoRepo,
	})

	// Timeouts are tuned for cold-cache plan creation (external solver latency).
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
