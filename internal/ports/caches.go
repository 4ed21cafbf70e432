package ports

import (
	"context"
	"walking-tour-service/internal/domain"
)

// GeocodeCache is a boundary for persisted station-name → coordinates lookups.
type GeocodeCache interface {
	GetMany(ctx context.Context, names []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// DistanceCache is a boundary for persisted origin → destination walking
// distances. Keys are "lat,lng" strings as produced by domain.Coordinates.
type DistanceCache interface {
	// GetMany returns cached distances in meters from one origin.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]float64, error)
	PutMany(ctx context.Context, origin string, results map[string]float64) error
}
