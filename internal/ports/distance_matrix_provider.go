package ports

import (
	"context"
	"walking-tour-service/internal/domain"
)

// Contract for retrieving pairwise travel distances.
type DistanceMatrixProvider interface {
	// DistanceMatrix returns an n×n matrix of directed walking distances
	// in meters between the given locations, indexed consistently with the
	// input slice. Entries the provider cannot resolve are NaN; callers
	// substitute a sentinel rather than treating them as errors.
	DistanceMatrix(ctx context.Context, locations []domain.Coordinates) ([][]float64, error)
}
