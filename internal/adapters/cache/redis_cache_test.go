package cache

import (
	"context"
	"math"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"walking-tour-service/internal/domain"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewRedisDistanceCache(newTestRedis(t))

	origin := "35.681236,139.767125"
	want := map[string]float64{
		"35.689487,139.691706": 5423.5,
		"35.710063,139.810700": 812,
	}
	if err := c.PutMany(ctx, origin, want); err != nil {
		t.Fatalf("PutMany: %v", err)
	}

	got, err := c.GetMany(ctx, origin, []string{
		"35.689487,139.691706",
		"35.710063,139.810700",
		"35.658034,139.701636", // never cached
	})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(got), got)
	}
	for dest, meters := range want {
		if math.Abs(got[dest]-meters) > 1e-9 {
			t.Errorf("dest %s: got %v, want %v", dest, got[dest], meters)
		}
	}
}

func TestRedisDistanceCacheEmptyOrigin(t *testing.T) {
	ctx := context.Background()
	c := NewRedisDistanceCache(newTestRedis(t))

	if _, err := c.GetMany(ctx, "", []string{"a"}); err == nil {
		t.Fatal("expected error for empty origin")
	}
	if err := c.PutMany(ctx, "", map[string]float64{"a": 1}); err == nil {
		t.Fatal("expected error for empty origin")
	}
}

func TestRedisDistanceCacheDedupesDestinations(t *testing.T) {
	ctx := context.Background()
	c := NewRedisDistanceCache(newTestRedis(t))

	origin := "35.0,139.0"
	if err := c.PutMany(ctx, origin, map[string]float64{"36.0,140.0": 1234}); err != nil {
		t.Fatalf("PutMany: %v", err)
	}

	got, err := c.GetMany(ctx, origin, []string{"36.0,140.0", "36.0,140.0", "36.0,140.0"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 1 || got["36.0,140.0"] != 1234 {
		t.Fatalf("got %v, want single entry 1234", got)
	}
}

func TestRedisGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewRedisGeocodeCache(newTestRedis(t))

	want := map[string]domain.Coordinates{
		"東京駅": {Lat: 35.681236, Lng: 139.767125},
		"新宿駅": {Lat: 35.689487, Lng: 139.691706},
	}
	if err := c.PutMany(ctx, want); err != nil {
		t.Fatalf("PutMany: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"東京駅", "新宿駅", "渋谷駅"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(got), got)
	}
	for name, coord := range want {
		if got[name] != coord {
			t.Errorf("%s: got %v, want %v", name, got[name], coord)
		}
	}
}

func TestRedisGeocodeCacheEmptyInput(t *testing.T) {
	ctx := context.Background()
	c := NewRedisGeocodeCache(newTestRedis(t))

	got, err := c.GetMany(ctx, nil)
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty map", got)
	}
	if err := c.PutMany(ctx, nil); err != nil {
		t.Fatalf("PutMany with empty map: %v", err)
	}
}
