package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"walking-tour-service/internal/domain"
	"walking-tour-service/internal/platform/obs"
)

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// SearchNearby finds places matching the keyword around a location using the
// Places Nearby Search API, ranked by distance, capped at maxResults.
func (c *Client) SearchNearby(
	ctx context.Context,
	loc domain.Coordinates,
	keyword string,
	maxResults int,
) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "googlemaps.SearchNearby")(&err)

	if c.normalize(keyword) == "" {
		return nil, fmt.Errorf("keyword must be non-empty")
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		q := url.Values{}
		q.Set("location", loc.String())
		q.Set("keyword", keyword)
		q.Set("rankby", "distance")
		return c.newRequest(ctx, "/maps/api/place/nearbysearch/json", q)
	})
	if err != nil {
		return nil, fmt.Errorf("execute nearby search request: %w", err)
	}
	defer resp.Body.Close()

	var decoded nearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode nearby search response: %w", err)
	}

	if decoded.Status == "ZERO_RESULTS" || len(decoded.Results) == 0 {
		return nil, fmt.Errorf("no places for keyword %q: %w", keyword, domain.ErrNotFound)
	}
	if decoded.Status != "OK" {
		return nil, fmt.Errorf("nearby search status %q for keyword %q", decoded.Status, keyword)
	}

	results := decoded.Results
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		coord, err := domain.NewCoordinates(r.Geometry.Location.Lat, r.Geometry.Location.Lng)
		if err != nil {
			return nil, fmt.Errorf("place %q: %w", r.Name, err)
		}

		address := r.Vicinity
		if address == "" {
			address = "住所情報なし"
		}

		places = append(places, domain.Place{
			PlaceID:  r.PlaceID,
			Name:     r.Name,
			Address:  address,
			Location: coord,
		})
	}

	return places, nil
}
