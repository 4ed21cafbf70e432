package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"walking-tour-service/internal/adapters/cache"
	"walking-tour-service/internal/adapters/googlemaps"
	"walking-tour-service/internal/adapters/repositories"
	"walking-tour-service/internal/api"
	"walking-tour-service/internal/config"
	"walking-tour-service/internal/platform/db"
	"walking-tour-service/internal/ports"
	"walking-tour-service/internal/services"
	"walking-tour-service/internal/solver"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, Redis, Google Maps) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}

	// Storage: Postgres when DATABASE_URL is set (schema prepared by
	// cmd/dbtool), otherwise the embedded SQLite database with schema init
	// on startup for local runs.
	var geocodeCache ports.GeocodeCache
	var distanceCache ports.DistanceCache
	var tours ports.TourRepository
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		geocodeCache = cache.NewSQLGeocodeCache(pg)
		distanceCache = cache.NewSQLDistanceCache(pg)
		tours = repositories.NewSQLTourRepository(pg)
		log.Println("Using postgres storage")
	} else {
		dbPath := config.Get("DB_PATH", "data/app.db")
		sqlite, err := openDB(dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlite.Close()

		if err := repositories.InitSchema(sqlite); err != nil {
			log.Fatal(err)
		}

		geocodeCache = cache.NewSqliteGeocodeCache(sqlite)
		distanceCache = cache.NewSqliteDistanceCache(sqlite)
		tours = repositories.NewSqliteTourRepository(sqlite)
	}

	// The Google Maps client sits behind persistent caches to avoid repeated
	// geocode/matrix calls. With REDIS_ADDR set the hot cache moves to Redis.
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		geocodeCache = cache.NewRedisGeocodeCache(client)
		distanceCache = cache.NewRedisDistanceCache(client)
		log.Printf("Using redis cache addr=%s", addr)
	}

	maps, err := googlemaps.NewClient(apiKey, geocodeCache, distanceCache)
	if err != nil {
		log.Fatal(err)
	}

	deps := services.PlanTourDeps{
		Geocoder: maps,
		Places:   maps,
		Matrix:   maps,
		Tours:    tours,
	}
	cfg := services.PlanTourConfig{
		SolveTimeLimit:  config.GetSeconds("SOLVE_TIME_LIMIT_SECONDS", solver.DefaultTimeLimit),
		WalkingSpeedKmH: config.GetFloat("WALKING_SPEED_KMH", 4.0),
	}

	router := api.NewRouter(deps, cfg)

	// Timeouts are tuned for cold-cache tour planning (external API latency
	// plus the solve budget).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
