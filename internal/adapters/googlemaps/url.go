package googlemaps

import (
	"net/url"
	"strings"

	"walking-tour-service/internal/domain"
)

// DirectionsURL builds a Google Maps directions link for the planned tour:
// from the station through every stop in visiting order and back.
func DirectionsURL(route *domain.Route) string {
	origin := route.Station.Location.String()

	waypoints := make([]string, 0, len(route.Places))
	for _, p := range route.Places {
		waypoints = append(waypoints, p.Location.String())
	}

	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", origin)
	q.Set("destination", origin)
	if len(waypoints) > 0 {
		q.Set("waypoints", strings.Join(waypoints, "|"))
	}
	q.Set("travelmode", "walking")

	return "https://www.google.com/maps/dir/?" + q.Encode()
}
