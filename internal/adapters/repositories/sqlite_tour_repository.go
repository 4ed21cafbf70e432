package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"walking-tour-service/internal/domain"
)

// SQLite-backed implementation of the TourRepository port.
type SqliteTourRepository struct{ DB *sql.DB }

func NewSqliteTourRepository(db *sql.DB) *SqliteTourRepository {
	return &SqliteTourRepository{DB: db}
}

// Store a planned route summary and return its row id.
func (s *SqliteTourRepository) SaveRoute(
	ctx context.Context,
	keyword string,
	route *domain.Route,
) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("sqlite tour repository: DB is nil")
	}
	if route == nil {
		return 0, errors.New("save route: route is nil")
	}

	stops, err := encodeStopNames(route)
	if err != nil {
		return 0, fmt.Errorf("save route: %w", err)
	}

	query := `
	INSERT INTO tours (
		station_name,
		keyword,
		stop_names,
		total_meters,
		status,
		planned_at
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query,
		route.Station.Name,
		keyword,
		stops,
		route.TotalMeters,
		route.Status,
		route.PlannedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("save route: insert tour: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save route: last insert id: %w", err)
	}

	return id, nil
}

// Return the most recently planned routes, newest first.
func (s *SqliteTourRepository) ListRecentRoutes(ctx context.Context, limit int) ([]domain.SavedRoute, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite tour repository: DB is nil")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("list recent routes: limit must be positive, got %d", limit)
	}

	query := `
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
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit)
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

// Stop names are stored as a JSON array in visiting order.
func encodeStopNames(route *domain.Route) (string, error) {
	names := make([]string, 0, len(route.Places))
	for _, p := range route.Places {
		names = append(names, p.Name)
	}
	bytes, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("encode stop names: %w", err)
	}
	return string(bytes), nil
}
