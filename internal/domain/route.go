package domain

import "time"

// Solve outcome attached to a planned route. Both are usable results; Feasible
// means the time budget expired before optimality was proven.
const (
	RouteOptimal  = "optimal"
	RouteFeasible = "feasible"
)

// Route is the planned walking tour for one request.
//
// Places holds the destinations in visiting order (the station itself is not a
// stop). SegmentMeters[i] is the walking distance into Places[i]: station to
// the first place, then place to place. The closing leg back to the station is
// carried separately in ClosingMeters and is included in TotalMeters but not
// itemized per stop. Immutable planning data, no side effects.
type Route struct {
	Station       Station
	Places        []Place
	SegmentMeters []float64
	ClosingMeters float64
	TotalMeters   float64
	Status        string
	PlannedAt     time.Time
}

// EstimatedDuration converts the total tour distance into walking time at the
// given average speed (km/h).
func (r *Route) EstimatedDuration(speedKmH float64) time.Duration {
	if speedKmH <= 0 {
		return 0
	}
	hours := (r.TotalMeters / 1000) / speedKmH
	return time.Duration(hours * float64(time.Hour))
}
