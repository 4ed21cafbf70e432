package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"walking-tour-service/internal/domain"
	"walking-tour-service/internal/platform/obs"
)

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GeocodeStation resolves a station name to coordinates using the Geocoding
// API (/maps/api/geocode/json), consulting the persistent cache first.
func (c *Client) GeocodeStation(ctx context.Context, name string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "googlemaps.GeocodeStation")(&err)

	norm := c.normalize(name)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("station name must be non-empty")
	}

	if c.geocodeCache != nil {
		hits, err := c.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode cache: %w", err)
		}
		if coord, ok := hits[norm]; ok {
			return coord, nil
		}
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		q := url.Values{}
		q.Set("address", norm)
		return c.newRequest(ctx, "/maps/api/geocode/json", q)
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if decoded.Status == "ZERO_RESULTS" || len(decoded.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q: %w", name, domain.ErrNotFound)
	}
	if decoded.Status != "OK" {
		return domain.Coordinates{}, fmt.Errorf("geocode status %q for %q", decoded.Status, name)
	}

	loc := decoded.Results[0].Geometry.Location
	coord, err := domain.NewCoordinates(loc.Lat, loc.Lng)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode result for %q: %w", name, err)
	}

	if c.geocodeCache != nil {
		if err := c.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: coord}); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return coord, nil
}
