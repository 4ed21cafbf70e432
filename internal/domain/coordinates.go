package domain

import "fmt"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lng float64
}

// NewCoordinates validates the latitude/longitude ranges at construction time
// so that an out-of-range pair can never enter the planning pipeline.
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("new coordinates: latitude %v out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("new coordinates: longitude %v out of range [-180, 180]", lng)
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}

// Return coordinates as "lat,lng" for external API compatibility.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}
