package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"walking-tour-service/internal/adapters/googlemaps"
	"walking-tour-service/internal/domain"
	"walking-tour-service/internal/ports"
)

// Ring layout: station -> A -> B -> C -> station is the unique optimum (40m
// around the ring versus 25m diagonals).
func ringDeps() PlanTourDeps {
	station := domain.Coordinates{Lat: 35.681236, Lng: 139.767125}
	return PlanTourDeps{
		Geocoder: &googlemaps.MockGeocoder{
			Coords: map[string]domain.Coordinates{"東京駅": station},
		},
		Places: &googlemaps.MockPlaceSearcher{
			Places: []domain.Place{
				{PlaceID: "a", Name: "Cafe A", Address: "1-1", Location: domain.Coordinates{Lat: 35.6813, Lng: 139.7672}},
				{PlaceID: "b", Name: "Cafe B", Address: "1-2", Location: domain.Coordinates{Lat: 35.6814, Lng: 139.7673}},
				{PlaceID: "c", Name: "Cafe C", Address: "1-3", Location: domain.Coordinates{Lat: 35.6815, Lng: 139.7674}},
			},
		},
		Matrix: &googlemaps.MockMatrixProvider{
			Matrix: [][]float64{
				{0, 10, 25, 10},
				{10, 0, 10, 25},
				{25, 10, 0, 10},
				{10, 25, 10, 0},
			},
		},
	}
}

func testConfig() PlanTourConfig {
	return PlanTourConfig{SolveTimeLimit: 5 * time.Second, WalkingSpeedKmH: 4}
}

func TestPlanTourOptimalOrder(t *testing.T) {
	req := PlanTourRequest{StationName: "東京駅", Keyword: "cafe", MaxResults: 5}

	result, err := PlanTour(context.Background(), req, ringDeps(), testConfig())
	if err != nil {
		t.Fatalf("PlanTour: %v", err)
	}
	route := result.Route

	if route.TotalMeters != 40 {
		t.Errorf("total meters = %v, want 40", route.TotalMeters)
	}
	if route.Status != domain.RouteOptimal {
		t.Errorf("status = %q, want %q", route.Status, domain.RouteOptimal)
	}

	if len(route.Places) != 3 {
		t.Fatalf("got %d places, want 3", len(route.Places))
	}
	names := []string{route.Places[0].Name, route.Places[1].Name, route.Places[2].Name}
	forward := names[0] == "Cafe A" && names[1] == "Cafe B" && names[2] == "Cafe C"
	reverse := names[0] == "Cafe C" && names[1] == "Cafe B" && names[2] == "Cafe A"
	if !forward && !reverse {
		t.Errorf("unexpected visiting order: %v", names)
	}

	if len(route.SegmentMeters) != 3 {
		t.Fatalf("got %d segments, want 3", len(route.SegmentMeters))
	}
	sum := route.ClosingMeters
	for _, s := range route.SegmentMeters {
		sum += s
	}
	if math.Abs(sum-route.TotalMeters) > 1e-9 {
		t.Errorf("segments + closing = %v, want %v", sum, route.TotalMeters)
	}
}

func TestPlanTourAnnotatesStationDistances(t *testing.T) {
	req := PlanTourRequest{StationName: "東京駅", Keyword: "cafe", MaxResults: 5}

	result, err := PlanTour(context.Background(), req, ringDeps(), testConfig())
	if err != nil {
		t.Fatalf("PlanTour: %v", err)
	}

	for _, p := range result.Route.Places {
		if p.DistanceFromStation == nil {
			t.Fatalf("place %s missing station distance", p.Name)
		}
	}
	for _, p := range result.Route.Places {
		var want float64
		switch p.Name {
		case "Cafe A", "Cafe C":
			want = 10
		case "Cafe B":
			want = 25
		}
		if *p.DistanceFromStation != want {
			t.Errorf("%s station distance = %v, want %v", p.Name, *p.DistanceFromStation, want)
		}
	}
}

func TestPlanTourEchoesMatrix(t *testing.T) {
	req := PlanTourRequest{StationName: "東京駅", Keyword: "cafe", MaxResults: 5}

	result, err := PlanTour(context.Background(), req, ringDeps(), testConfig())
	if err != nil {
		t.Fatalf("PlanTour: %v", err)
	}
	if len(result.DistanceMatrix) != 4 {
		t.Fatalf("matrix has %d rows, want 4", len(result.DistanceMatrix))
	}
	if result.DistanceMatrix[0][1] != 10 || result.DistanceMatrix[0][2] != 25 {
		t.Errorf("matrix row 0 = %v", result.DistanceMatrix[0])
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestPlanTourUnreachableWarning(t *testing.T) {
	deps := ringDeps()
	m := deps.Matrix.(*googlemaps.MockMatrixProvider)
	m.Matrix[1][2] = math.NaN()

	req := PlanTourRequest{StationName: "東京駅", Keyword: "cafe", MaxResults: 5}
	result, err := PlanTour(context.Background(), req, deps, testConfig())
	if err != nil {
		t.Fatalf("PlanTour: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(result.Warnings), result.Warnings)
	}
	// The sentinel must never leak into a chosen route here; alternatives exist.
	if result.Route.TotalMeters >= 999_999 {
		t.Errorf("route routed through sentinel edge: total=%v", result.Route.TotalMeters)
	}
}

func TestPlanTourValidation(t *testing.T) {
	deps := ringDeps()
	cfg := testConfig()

	cases := []struct {
		name string
		req  PlanTourRequest
	}{
		{"empty station", PlanTourRequest{StationName: "  ", Keyword: "cafe", MaxResults: 5}},
		{"empty keyword", PlanTourRequest{StationName: "東京駅", Keyword: "", MaxResults: 5}},
		{"zero max results", PlanTourRequest{StationName: "東京駅", Keyword: "cafe"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PlanTour(context.Background(), tc.req, deps, cfg)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestPlanTourUnknownStation(t *testing.T) {
	req := PlanTourRequest{StationName: "存在しない駅", Keyword: "cafe", MaxResults: 5}
	_, err := PlanTour(context.Background(), req, ringDeps(), testConfig())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPlanTourNoPlacesFound(t *testing.T) {
	deps := ringDeps()
	deps.Places = &googlemaps.MockPlaceSearcher{}

	req := PlanTourRequest{StationName: "東京駅", Keyword: "cafe", MaxResults: 5}
	_, err := PlanTour(context.Background(), req, deps, testConfig())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

type recordingTourRepo struct {
	saved   []string
	listErr error
}

func (r *recordingTourRepo) SaveRoute(ctx context.Context, keyword string, route *domain.Route) (int64, error) {
	r.saved = append(r.saved, keyword)
	return int64(len(r.saved)), nil
}

func (r *recordingTourRepo) ListRecentRoutes(ctx context.Context, limit int) ([]domain.SavedRoute, error) {
	return nil, r.listErr
}

var _ ports.TourRepository = (*recordingTourRepo)(nil)

func TestPlanTourPersistsHistory(t *testing.T) {
	deps := ringDeps()
	repo := &recordingTourRepo{}
	deps.Tours = repo

	req := PlanTourRequest{StationName: "東京駅", Keyword: "cafe", MaxResults: 5}
	if _, err := PlanTour(context.Background(), req, deps, testConfig()); err != nil {
		t.Fatalf("PlanTour: %v", err)
	}
	if len(repo.saved) != 1 || repo.saved[0] != "cafe" {
		t.Fatalf("saved keywords = %v, want [cafe]", repo.saved)
	}
}
