package ports

import (
	"context"
	"walking-tour-service/internal/domain"
)

// Contract for resolving a station name to coordinates.
type Geocoder interface {
	// GeocodeStation returns the location of the named station.
	GeocodeStation(ctx context.Context, name string) (domain.Coordinates, error)
}

// Contract for finding points of interest near a location.
type PlaceSearcher interface {
	// SearchNearby returns up to maxResults places matching the keyword,
	// ranked by distance from the given location.
	SearchNearby(ctx context.Context, loc domain.Coordinates, keyword string, maxResults int) ([]domain.Place, error)
}
