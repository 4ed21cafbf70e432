package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"walking-tour-service/internal/domain"
	"walking-tour-service/internal/platform/obs"
	"walking-tour-service/internal/ports"
	"walking-tour-service/internal/solver"
)

// ErrInvalidRequest marks request-level validation failures: reported before
// any external call or solve attempt, never retried.
var ErrInvalidRequest = errors.New("plan tour: invalid request")

type PlanTourRequest struct {
	StationName string
	Keyword     string
	MaxResults  int
}

// PlanTourDeps are the external collaborators the planner orchestrates. Tours
// may be nil; history persistence is best-effort.
type PlanTourDeps struct {
	Geocoder ports.Geocoder
	Places   ports.PlaceSearcher
	Matrix   ports.DistanceMatrixProvider
	Tours    ports.TourRepository
}

type PlanTourConfig struct {
	SolveTimeLimit  time.Duration
	WalkingSpeedKmH float64
}

// PlanTourResult bundles the planned route with the reporting data the
// original matrix view needs.
type PlanTourResult struct {
	Route          *domain.Route
	DistanceMatrix [][]float64
	Warnings       []string
}

// PlanTour runs one full optimization request: geocode the station, search
// nearby places, fetch the pairwise distance matrix, solve the tour problem
// and extract the visiting order. Each request builds its own distance model
// and solver state; nothing is shared across calls.
func PlanTour(
	ctx context.Context,
	req PlanTourRequest,
	deps PlanTourDeps,
	cfg PlanTourConfig,
) (_ *PlanTourResult, err error) {
	defer obs.Time(ctx, "services.PlanTour")(&err)

	station := strings.TrimSpace(req.StationName)
	if station == "" {
		return nil, fmt.Errorf("%w: station name must be non-empty", ErrInvalidRequest)
	}
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword must be non-empty", ErrInvalidRequest)
	}
	if req.MaxResults < 1 {
		return nil, fmt.Errorf("%w: max results must be at least 1", ErrInvalidRequest)
	}

	loc, err := deps.Geocoder.GeocodeStation(ctx, station)
	if err != nil {
		return nil, fmt.Errorf("plan tour: geocode station %q: %w", station, err)
	}

	places, err := deps.Places.SearchNearby(ctx, loc, keyword, req.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("plan tour: search places near %q: %w", station, err)
	}
	// A single-point tour is degenerate; reject before invoking the solver.
	if len(places) < 1 {
		return nil, fmt.Errorf("plan tour: no places for keyword %q: %w", keyword, domain.ErrNotFound)
	}

	locations := make([]domain.Coordinates, 0, 1+len(places))
	locations = append(locations, loc)
	for _, p := range places {
		locations = append(locations, p.Location)
	}

	raw, err := deps.Matrix.DistanceMatrix(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("plan tour: fetch distance matrix: %w", err)
	}

	model, err := solver.NewMatrix(raw)
	if err != nil {
		return nil, fmt.Errorf("plan tour: build distance model: %w", err)
	}

	var warnings []string
	for _, pair := range model.Substituted() {
		warnings = append(warnings, fmt.Sprintf(
			"no walking route between point %d and point %d; substituted %dm sentinel",
			pair[0], pair[1], solver.UnreachableSentinel,
		))
	}

	// Annotate each place with its direct station distance for display.
	depotDist := model.DepotDistances()
	for i := range places {
		d := depotDist[i]
		places[i].DistanceFromStation = &d
	}

	sol, err := solver.Solve(ctx, model, solver.Config{TimeLimit: cfg.SolveTimeLimit})
	if err != nil {
		return nil, fmt.Errorf("plan tour: optimize: %w", err)
	}

	tour, err := solver.ExtractTour(model, sol.Edges)
	if err != nil {
		return nil, fmt.Errorf("plan tour: extract tour: %w", err)
	}

	ordered := make([]domain.Place, 0, len(tour.Order))
	for _, idx := range tour.Order {
		ordered = append(ordered, places[idx-1])
	}

	status := domain.RouteOptimal
	if sol.Status == solver.StatusFeasible {
		status = domain.RouteFeasible
	}

	route := &domain.Route{
		Station:       domain.Station{Name: station, Location: loc},
		Places:        ordered,
		SegmentMeters: tour.SegmentMeters[:len(tour.SegmentMeters)-1],
		ClosingMeters: tour.SegmentMeters[len(tour.SegmentMeters)-1],
		TotalMeters:   tour.TotalMeters,
		Status:        status,
		PlannedAt:     time.Now().UTC(),
	}

	// History persistence must not fail a successfully planned tour.
	if deps.Tours != nil {
		if _, err := deps.Tours.SaveRoute(ctx, keyword, route); err != nil {
			log.Printf("save route failed: station=%q keyword=%q err=%v", station, keyword, err)
		}
	}

	return &PlanTourResult{
		Route:          route,
		DistanceMatrix: model.Rows(),
		Warnings:       warnings,
	}, nil
}
