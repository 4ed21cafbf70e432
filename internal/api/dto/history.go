package dto

import "time"

type SavedRouteResponse struct {
	ID          int64     `json:"id"`
	Station     string    `json:"station"`
	Keyword     string    `json:"keyword"`
	Stops       []string  `json:"stops"`
	TotalMeters float64   `json:"total_meters"`
	Status      string    `json:"status"`
	PlannedAt   time.Time `json:"planned_at"`
}

type ListSavedRoutesResponse struct {
	Routes []SavedRouteResponse `json:"routes"`
}
