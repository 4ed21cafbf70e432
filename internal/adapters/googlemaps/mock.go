package googlemaps

import (
	"context"
	"fmt"

	"walking-tour-service/internal/domain"
)

// Test doubles for the planning ports, used by service-level tests so no
// external API is needed.

type MockGeocoder struct {
	Coords map[string]domain.Coordinates
}

func (m *MockGeocoder) GeocodeStation(ctx context.Context, name string) (domain.Coordinates, error) {
	c, ok := m.Coords[name]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("no geocode result for %q: %w", name, domain.ErrNotFound)
	}
	return c, nil
}

type MockPlaceSearcher struct {
	Places []domain.Place
}

func (m *MockPlaceSearcher) SearchNearby(ctx context.Context, loc domain.Coordinates, keyword string, maxResults int) ([]domain.Place, error) {
	places := m.Places
	if maxResults > 0 && len(places) > maxResults {
		places = places[:maxResults]
	}
	out := make([]domain.Place, len(places))
	copy(out, places)
	return out, nil
}

type MockMatrixProvider struct {
	Matrix [][]float64
	Calls  int
}

func (m *MockMatrixProvider) DistanceMatrix(ctx context.Context, locations []domain.Coordinates) ([][]float64, error) {
	m.Calls++
	if len(locations) != len(m.Matrix) {
		return nil, fmt.Errorf("mock matrix has %d locations, got %d", len(m.Matrix), len(locations))
	}
	return m.Matrix, nil
}
