package domain

// Place is a single point of interest near a station.
// DistanceFromStation is an informational annotation filled in once the
// distance matrix has been computed; it is display data only and is never
// consumed by the optimizer.
type Place struct {
	PlaceID             string
	Name                string
	Address             string
	Location            Coordinates
	DistanceFromStation *float64
}
