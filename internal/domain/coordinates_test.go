package domain

import (
	"testing"
	"time"
)

func TestNewCoordinatesValidatesRanges(t *testing.T) {
	cases := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid tokyo", 35.6812, 139.7671, false},
		{"valid boundary", -90, 180, false},
		{"latitude too high", 90.01, 0, true},
		{"latitude too low", -91, 0, true},
		{"longitude too high", 0, 180.5, true},
		{"longitude too low", 0, -181, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewCoordinates(tc.lat, tc.lng)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for (%v, %v)", tc.lat, tc.lng)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Lat != tc.lat || c.Lng != tc.lng {
				t.Fatalf("coordinates = %+v, want (%v, %v)", c, tc.lat, tc.lng)
			}
		})
	}
}

func TestRouteEstimatedDuration(t *testing.T) {
	r := &Route{TotalMeters: 4000}

	// 4 km at 4 km/h is exactly one hour.
	if got := r.EstimatedDuration(4.0); got != time.Hour {
		t.Fatalf("duration = %v, want %v", got, time.Hour)
	}

	if got := r.EstimatedDuration(0); got != 0 {
		t.Fatalf("duration with zero speed = %v, want 0", got)
	}
}
