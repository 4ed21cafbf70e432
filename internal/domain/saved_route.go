package domain

import "time"

// SavedRoute is the persisted summary of a previously planned tour, used by
// the history endpoint. Stop names are kept in visiting order; the full
// per-segment breakdown is not retained.
type SavedRoute struct {
	ID          int64
	StationName string
	Keyword     string
	StopNames   []string
	TotalMeters float64
	Status      string
	PlannedAt   time.Time
}
