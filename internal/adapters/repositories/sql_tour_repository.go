package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"walking-tour-service/internal/domain"
	"walking-tour-service/internal/platform/obs"
)

// Postgres-backed implementation of the TourRepository port.
type SQLTourRepository struct{ DB *sql.DB }

func NewSQLTourRepository(db *sql.DB) *SQLTourRepository {
	return &SQLTourRepository{DB: db}
}

// Store a planned route summary and return its row id.
func (s *SQLTourRepository) SaveRoute(
	ctx context.Context,
	keyword string,
	route *domain.Route,
) (_ int64, err error) {
	defer obs.Time(ctx, "tours.SaveRoute")(&err)

	if s.DB == nil {
		return 0, errors.New("sql tour repository: DB is nil")
	}
	if route == nil {
		return 0, errors.New("save route: route is nil")
	}

	stops, err := encodeStopNames(route)
	if err != nil {
		return 0, fmt.Errorf("save route: %w", err)
	}

	q := `
	INSERT INTO tours (
		station_name,
		keyword,
		stop_names,
		total_meters,
		status,
		planned_at
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id;
	`
	var id int64
	err = s.DB.QueryRowContext(ctx, q,
		route.Station.Name,
		keyword,
		stops,
		route.TotalMeters,
		route.Status,
		route.PlannedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save route: insert tour: %w", err)
	}

	return id, nil
}

// Return the most recently planned routes, newest first.
func (s *SQLTourRepository) ListRecentRoutes(ctx context.Context, limit int) (_ []domain.SavedRoute, err error) {
	defer obs.Time(ctx, "tours.ListRecentRoutes")(&err)

	if s.DB == nil {
		return nil, errors.New("sql tour repository: DB is nil")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("list recent routes: limit must be positive, got %d", limit)
	}

	q := `
	SELECT
		id,
		station_name,
		keyword,
		stop_names,
		total_meters,
		status,
		planned_at
	FROM tours
	ORDER BY planned_at DESC, id DESC
	LIMIT $1;
	`
	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent routes: query tours table: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.SavedRoute, 0, limit)
	for rows.Next() {
		var r domain.SavedRoute
		var stops string
		err := rows.Scan(&r.ID, &r.StationName, &r.Keyword, &stops, &r.TotalMeters, &r.Status, &r.PlannedAt)
		if err != nil {
			return nil, fmt.Errorf("list recent routes: scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(stops), &r.StopNames); err != nil {
			return nil, fmt.Errorf("list recent routes: decode stop names for id=%d: %w", r.ID, err)
		}
		routes = append(routes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent routes: row iteration: %w", err)
	}

	return routes, nil
}
