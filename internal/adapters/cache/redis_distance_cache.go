package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"logistics-ops-service/internal/domain"
)

const redisKeyPrefix = "dist:"

// RedisDistanceCache is a Redis-backed alternative to the SQL distance
// cache, keyed "dist:{from}:{to}" with JSON-encoded legs. Entries carry no
// TTL; they live until an explicit Clear.
type RedisDistanceCache struct {
	rdb *redis.Client
}

func NewRedisDistanceCache(rdb *redis.Client) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb}
}

func redisKey(from, to string) string {
	return redisKeyPrefix + from + ":" + to
}

// Get fetches the cached leg for the ordered pair (from, to).
func (c *RedisDistanceCache) Get(ctx context.Context, from, to string) (domain.DistanceEntry, bool, error) {
	if from == "" || to == "" {
		return domain.DistanceEntry{}, false, errors.New("get distance cache: from and to must be non-empty")
	}

	payload, err := c.rdb.Get(ctx, redisKey(from, to)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DistanceEntry{}, false, nil
	}
	if err != nil {
		return domain.DistanceEntry{}, false, fmt.Errorf("get distance cache %q -> %q: %w", from, to, err)
	}

	var entry domain.DistanceEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return domain.DistanceEntry{}, false, fmt.Errorf("decode distance cache entry %q -> %q: %w", from, to, err)
	}

	return entry, true, nil
}

// Put upserts the leg for the ordered pair (from, to).
func (c *RedisDistanceCache) Put(ctx context.Context, from, to string, entry domain.DistanceEntry) error {
	if from == "" || to == "" {
		return errors.New("insert distance cache: from and to must be non-empty")
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode distance cache entry: %w", err)
	}

	if err := c.rdb.Set(ctx, redisKey(from, to), payload, 0).Err(); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q: %w", from, to, err)
	}

	return nil
}

// Clear deletes every cached leg under the cache prefix.
func (c *RedisDistanceCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("clear distance cache: scan: %w", err)
		}

		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("clear distance cache: delete batch: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
