package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"walking-tour-service/internal/domain"
)

// Redis-backed variants of the geocode and distance caches, for deployments
// that want a shared hot cache in front of (or instead of) the SQL ones.
// Entries expire so stale road-network data eventually drops out.
const redisCacheTTL = 30 * 24 * time.Hour

type RedisDistanceCache struct {
	Client *redis.Client
}

func NewRedisDistanceCache(client *redis.Client) *RedisDistanceCache {
	return &RedisDistanceCache{Client: client}
}

func distanceKey(origin, destination string) string {
	return "distance:" + origin + ":" + destination
}

// Fetch cached distances for one origin and multiple destinations.
func (r *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]float64, error) {
	if r.Client == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}
	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := dedupe(destinations)
	if len(uniq) == 0 {
		return map[string]float64{}, nil
	}

	keys := make([]string, len(uniq))
	for i, d := range uniq {
		keys[i] = distanceKey(origin, d)
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: mget: %w", err)
	}

	out := make(map[string]float64, len(uniq))
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		meters, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("get distance cache: parse %q: %w", s, err)
		}
		out[uniq[i]] = meters
	}

	return out, nil
}

// Store many cached distances for a single origin.
func (r *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]float64,
) error {
	if r.Client == nil {
		return errors.New("distance cache: redis client is nil")
	}
	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	_, err := r.Client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for dest, meters := range results {
			if strings.TrimSpace(dest) == "" {
				return fmt.Errorf("insert distance cache: empty destination key")
			}
			p.Set(ctx, distanceKey(origin, dest), strconv.FormatFloat(meters, 'f', -1, 64), redisCacheTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert distance cache: pipeline: %w", err)
	}

	return nil
}

type RedisGeocodeCache struct {
	Client *redis.Client
}

func NewRedisGeocodeCache(client *redis.Client) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client}
}

func geocodeKey(name string) string { return "geocode:" + name }

// Fetch cached coordinates for the given station names.
func (r *RedisGeocodeCache) GetMany(
	ctx context.Context,
	names []string,
) (map[string]domain.Coordinates, error) {
	if r.Client == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := dedupe(names)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	keys := make([]string, len(uniq))
	for i, n := range uniq {
		keys[i] = geocodeKey(n)
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		coord, err := parseCoordValue(s)
		if err != nil {
			return nil, fmt.Errorf("get geocode cache: %w", err)
		}
		out[uniq[i]] = coord
	}

	return out, nil
}

// Store station name -> coordinate mappings in the cache.
func (r *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if r.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}
	if len(results) == 0 {
		return nil
	}

	_, err := r.Client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for name, c := range results {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("insert geocode cache: empty name key")
			}
			v := strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
			p.Set(ctx, geocodeKey(name), v, redisCacheTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert geocode cache: pipeline: %w", err)
	}

	return nil
}

func parseCoordValue(s string) (domain.Coordinates, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("malformed coordinate value %q", s)
	}
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse latitude %q: %w", lat, err)
	}
	lngF, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse longitude %q: %w", lng, err)
	}
	return domain.Coordinates{Lat: latF, Lng: lngF}, nil
}
