package di

import (
	"github.com/redis/go-redis/v9"

	"mining_analytics/internal/platform/cache"
)

// NewCacheStore creates the price cache backend.
// If Redis is available, it returns a Redis-backed store.
// Otherwise, it falls back to an in-process TTL store.
func NewCacheStore(rdb *redis.Client) cache.Store {
	if rdb != nil {
		return cache.NewRedisStore(rdb)
	}
	return cache.NewMemoryStore(0)
}
