package ports

import (
	"context"
	"walking-tour-service/internal/domain"
)

// Port: a boundary for persisting and retrieving planned tours.
type TourRepository interface {
	// SaveRoute stores a planned route and returns its identifier.
	SaveRoute(ctx context.Context, keyword string, route *domain.Route) (int64, error)
	// ListRecentRoutes returns the most recently planned routes, newest first.
	ListRecentRoutes(ctx context.Context, limit int) ([]domain.SavedRoute, error)
}
