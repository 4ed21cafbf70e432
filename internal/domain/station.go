package domain

// Station is the fixed start and end point of a tour (the depot).
type Station struct {
	Name     string
	Location Coordinates
}
