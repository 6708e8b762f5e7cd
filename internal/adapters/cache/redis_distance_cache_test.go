package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	"logistics-ops-service/internal/domain"
)

func newTestCache(t *testing.T) *RedisDistanceCache {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisDistanceCache(rdb)
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	entry := domain.DistanceEntry{DistanceKm: 12.5, DurationMinutes: 18.2, Geometry: "abc123"}
	if err := c.Put(ctx, "a", "b", entry); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, "a", "b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got != entry {
		t.Fatalf("entry = %+v, want %+v", got, entry)
	}
}

func TestRedisDistanceCacheIsDirectional(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "a", "b", domain.DistanceEntry{DistanceKm: 10}); err != nil {
		t.Fatalf("put: %v", err)
	}

	// The reverse pair must not be satisfied by the forward entry.
	if _, ok, err := c.Get(ctx, "b", "a"); err != nil {
		t.Fatalf("get reverse: %v", err)
	} else if ok {
		t.Fatal("reverse pair should miss")
	}

	if err := c.Put(ctx, "b", "a", domain.DistanceEntry{DistanceKm: 11}); err != nil {
		t.Fatalf("put reverse: %v", err)
	}

	fwd, _, _ := c.Get(ctx, "a", "b")
	rev, _, _ := c.Get(ctx, "b", "a")
	if fwd.DistanceKm == rev.DistanceKm {
		t.Fatal("directional entries should be independent")
	}
}

func TestRedisDistanceCacheMiss(t *testing.T) {
	c := newTestCache(t)

	_, ok, err := c.Get(context.Background(), "x", "y")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected a miss for an unknown pair")
	}
}

func TestRedisDistanceCacheClear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	pairs := [][2]string{{"a", "b"}, {"b", "a"}, {"a", "c"}}
	for _, p := range pairs {
		if err := c.Put(ctx, p[0], p[1], domain.DistanceEntry{DistanceKm: 1}); err != nil {
			t.Fatalf("put %v: %v", p, err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	for _, p := range pairs {
		if _, ok, _ := c.Get(ctx, p[0], p[1]); ok {
			t.Fatalf("pair %v survived clear", p)
		}
	}
}
