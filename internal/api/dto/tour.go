package dto

import "time"

type PlanTourRequest struct {
	Station    string `json:"station"`
	Keyword    string `json:"keyword"`
	MaxResults int    `json:"max_results"`
}

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type TourStopResponse struct {
	Order                     int                 `json:"order"`
	PlaceID                   string              `json:"place_id"`
	Name                      string              `json:"name"`
	Address                   string              `json:"address"`
	Location                  CoordinatesResponse `json:"location"`
	DistanceFromStationMeters *float64            `json:"distance_from_station_meters,omitempty"`
	SegmentMeters             float64             `json:"segment_meters"`
	CumulativeMeters          float64             `json:"cumulative_meters"`
}

type PlanTourResponse struct {
	Station          string              `json:"station"`
	StationLocation  CoordinatesResponse `json:"station_location"`
	Stops            []TourStopResponse  `json:"stops"`
	ClosingMeters    float64             `json:"closing_meters"`
	TotalMeters      float64             `json:"total_meters"`
	EstimatedMinutes float64             `json:"estimated_minutes"`
	Status           string              `json:"status"`
	PlannedAt        time.Time           `json:"planned_at"`
	MapsURL          string              `json:"maps_url"`
	DistanceMatrix   [][]float64         `json:"distance_matrix"`
	Warnings         []string            `json:"warnings,omitempty"`
}
