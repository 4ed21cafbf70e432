package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"walking-tour-service/internal/adapters/googlemaps"
	"walking-tour-service/internal/api/dto"
	"walking-tour-service/internal/domain"
	"walking-tour-service/internal/services"
	"walking-tour-service/internal/solver"
)

const (
	defaultMaxResults = 5
	minMaxResults     = 3
	maxMaxResults     = 10
)

type TourHandler struct {
	Deps services.PlanTourDeps
	Cfg  services.PlanTourConfig
}

// Plan runs one walking-tour optimization request end to end: geocoding,
// place search, distance matrix, solve and extraction all happen inside the
// service call; the handler only validates, translates errors and shapes the
// response.
func (h *TourHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanTourRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}
	if maxResults < minMaxResults || maxResults > maxMaxResults {
		writeError(w, r, http.StatusBadRequest, "max_results must be between 3 and 10")
		return
	}

	svcReq := services.PlanTourRequest{
		StationName: req.Station,
		Keyword:     req.Keyword,
		MaxResults:  maxResults,
	}

	result, err := services.PlanTour(r.Context(), svcReq, h.Deps, h.Cfg)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanTourResponse(result, h.Cfg.WalkingSpeedKmH))
}

// writePlanError maps service and solver failures onto HTTP status codes.
func writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, solver.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "no matching station or places found")
	case errors.Is(err, solver.ErrNoSolution):
		writeError(w, r, http.StatusServiceUnavailable, "no tour found within the time budget; retry with fewer places")
	default:
		log.Printf("plan tour failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func toPlanTourResponse(result *services.PlanTourResult, speedKmH float64) dto.PlanTourResponse {
	route := result.Route

	stops := make([]dto.TourStopResponse, 0, len(route.Places))
	cumulative := 0.0
	for i, p := range route.Places {
		cumulative += route.SegmentMeters[i]
		stops = append(stops, dto.TourStopResponse{
			Order:                     i + 1,
			PlaceID:                   p.PlaceID,
			Name:                      p.Name,
			Address:                   p.Address,
			Location:                  dto.CoordinatesResponse{Lat: p.Location.Lat, Lng: p.Location.Lng},
			DistanceFromStationMeters: p.DistanceFromStation,
			SegmentMeters:             route.SegmentMeters[i],
			CumulativeMeters:          cumulative,
		})
	}

	return dto.PlanTourResponse{
		Station:          route.Station.Name,
		StationLocation:  dto.CoordinatesResponse{Lat: route.Station.Location.Lat, Lng: route.Station.Location.Lng},
		Stops:            stops,
		ClosingMeters:    route.ClosingMeters,
		TotalMeters:      route.TotalMeters,
		EstimatedMinutes: route.EstimatedDuration(speedKmH).Minutes(),
		Status:           route.Status,
		PlannedAt:        route.PlannedAt,
		MapsURL:          googlemaps.DirectionsURL(route),
		DistanceMatrix:   result.DistanceMatrix,
		Warnings:         result.Warnings,
	}
}
