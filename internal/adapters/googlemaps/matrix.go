package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strings"

	"walking-tour-service/internal/domain"
	"walking-tour-service/internal/platform/obs"
)

// The Distance Matrix API caps each request at 25 origins and 25
// destinations; larger grids are fetched in blocks.
const matrixBatchSize = 25

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// DistanceMatrix returns the full n×n directed walking-distance grid for the
// given locations. Cached pairs are served from the distance cache; the rest
// are fetched in batched Distance Matrix API calls. Elements the API cannot
// route are reported as NaN and are not cached.
func (c *Client) DistanceMatrix(
	ctx context.Context,
	locations []domain.Coordinates,
) (_ [][]float64, err error) {
	defer obs.Time(ctx, "googlemaps.DistanceMatrix")(&err)

	n := len(locations)
	if n < 2 {
		return nil, errors.New("distance matrix needs at least 2 locations")
	}

	keys := make([]string, n)
	for i, loc := range locations {
		keys[i] = loc.String()
	}

	out := make([][]float64, n)
	filled := make([][]bool, n)
	for i := range out {
		out[i] = make([]float64, n)
		filled[i] = make([]bool, n)
		filled[i][i] = true
	}

	if c.distanceCache != nil {
		for i := 0; i < n; i++ {
			dests := make([]string, 0, n-1)
			for j := 0; j < n; j++ {
				if j != i {
					dests = append(dests, keys[j])
				}
			}
			hits, err := c.distanceCache.GetMany(ctx, keys[i], dests)
			if err != nil {
				return nil, fmt.Errorf("distance cache: %w", err)
			}
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				if meters, ok := hits[keys[j]]; ok {
					out[i][j] = meters
					filled[i][j] = true
				}
			}
		}
	}

	// Origins that still have at least one unresolved destination.
	pending := make([]int, 0, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !filled[i][j] {
				pending = append(pending, i)
				break
			}
		}
	}
	if len(pending) == 0 {
		return out, nil
	}

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	fresh := make(map[int]map[string]float64, len(pending))
	for oStart := 0; oStart < len(pending); oStart += matrixBatchSize {
		oEnd := min(oStart+matrixBatchSize, len(pending))
		origins := pending[oStart:oEnd]

		for dStart := 0; dStart < n; dStart += matrixBatchSize {
			dEnd := min(dStart+matrixBatchSize, n)
			dests := all[dStart:dEnd]

			block, err := c.fetchMatrixBlock(ctx, keys, origins, dests)
			if err != nil {
				return nil, fmt.Errorf("fetch matrix block: %w", err)
			}

			for oi, i := range origins {
				for di, j := range dests {
					if i == j {
						continue
					}
					meters := block[oi][di]
					out[i][j] = meters
					filled[i][j] = true
					if !math.IsNaN(meters) {
						if fresh[i] == nil {
							fresh[i] = make(map[string]float64)
						}
						fresh[i][keys[j]] = meters
					}
				}
			}
		}
	}

	if c.distanceCache != nil {
		for i, row := range fresh {
			if err := c.distanceCache.PutMany(ctx, keys[i], row); err != nil {
				log.Printf("distance cache write failed: %v", err)
			}
		}
	}

	return out, nil
}

// fetchMatrixBlock retrieves one origins×destinations block. Unroutable
// elements come back as NaN.
func (c *Client) fetchMatrixBlock(
	ctx context.Context,
	keys []string,
	origins []int,
	dests []int,
) ([][]float64, error) {
	originKeys := make([]string, len(origins))
	for i, o := range origins {
		originKeys[i] = keys[o]
	}
	destKeys := make([]string, len(dests))
	for i, d := range dests {
		destKeys[i] = keys[d]
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		q := url.Values{}
		q.Set("origins", strings.Join(originKeys, "|"))
		q.Set("destinations", strings.Join(destKeys, "|"))
		q.Set("mode", c.mode)
		q.Set("units", "metric")
		return c.newRequest(ctx, "/maps/api/distancematrix/json", q)
	})
	if err != nil {
		return nil, fmt.Errorf("execute matrix request: %w", err)
	}
	defer resp.Body.Close()

	var decoded matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if decoded.Status != "OK" {
		return nil, fmt.Errorf("matrix status %q", decoded.Status)
	}
	if len(decoded.Rows) != len(origins) {
		return nil, fmt.Errorf("matrix returned %d rows, want %d", len(decoded.Rows), len(origins))
	}

	block := make([][]float64, len(origins))
	for i, row := range decoded.Rows {
		if len(row.Elements) != len(dests) {
			return nil, fmt.Errorf("matrix row %d has %d elements, want %d", i, len(row.Elements), len(dests))
		}
		block[i] = make([]float64, len(dests))
		for j, el := range row.Elements {
			if el.Status != "OK" {
				block[i][j] = math.NaN()
				continue
			}
			block[i][j] = el.Distance.Value
		}
	}

	return block, nil
}
