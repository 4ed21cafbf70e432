package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"walking-tour-service/internal/platform/db"
)

// dbtool prepares a Postgres database for deployments that keep the caches
// and tour history in Postgres instead of the embedded SQLite store.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := initSchema(db); err != nil {
		log.Fatal(err)
	}
}

func initSchema(db *sql.DB) error {
	log.Println("Initializing database schema...")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS tours (
			id BIGSERIAL PRIMARY KEY,
			station_name TEXT NOT NULL,
			keyword TEXT NOT NULL,
			stop_names TEXT NOT NULL,
			total_meters DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			planned_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS distance_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			distance_meters DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (origin, destination)
		);`,
		`CREATE TABLE IF NOT EXISTS geocode_cache (
			name TEXT PRIMARY KEY,
			lat DOUBLE PRECISION NOT NULL,
			lng DOUBLE PRECISION NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tours_planned_at
			ON tours (planned_at DESC);`,
	}

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("init schema: exec statement #%d: %v", i+1, err)
		}
	}

	log.Println("Schema ready.")
	return nil
}
