// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mining_analytics/internal/feature/prices/usecase"
	"mining_analytics/internal/platform/metrics"
	"mining_analytics/internal/shared/market"
)

// CachingPriceRepository decorates a PriceRepository with a key/value cache.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Cache failures never fail a request.
type CachingPriceRepository struct {
	inner     usecase.PriceRepository
	store     Store
	ttl       time.Duration
	namespace string
	metrics   *metrics.Metrics
	now       func() time.Time
	logger    zerolog.Logger
}

var (
	_ usecase.PriceRepository  = (*CachingPriceRepository)(nil)
	_ usecase.CacheInvalidator = (*CachingPriceRepository)(nil)
)

// NewCachingPriceRepository decorates inner with store.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "prices".
// A nil store disables caching.
func NewCachingPriceRepository(store Store, ttl time.Duration, inner usecase.PriceRepository, namespace string, m *metrics.Metrics) *CachingPriceRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceRepository{
		inner:     inner,
		store:     store,
		ttl:       ttl,
		namespace: namespace,
		metrics:   m,
		now:       time.Now,
		logger:    log.With().Str("component", "price_cache").Logger(),
	}
}

// UpsertBatch writes points and invalidates every cached query of the touched assets.
func (c *CachingPriceRepository) UpsertBatch(ctx context.Context, points []market.PricePoint) error {
	if err := c.inner.UpsertBatch(ctx, points); err != nil {
		return err
	}
	if c.store == nil || len(points) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, p := range points {
		if _, ok := seen[p.Asset]; ok {
			continue
		}
		seen[p.Asset] = struct{}{}
		if err := c.store.DeletePrefix(ctx, c.cacheKeyPrefix(p.Asset)); err != nil {
			c.logger.Warn().Err(err).Str("asset", p.Asset).Msg("cache invalidation failed")
		}
	}
	return nil
}

// Find retrieves points, checking the cache first then falling back to the store.
func (c *CachingPriceRepository) Find(ctx context.Context, asset string, since time.Time) ([]market.PricePoint, error) {
	if c.store == nil {
		return c.inner.Find(ctx, asset, since)
	}

	key := c.cacheKey(asset, since)
	backend := c.store.Backend()

	// 1) Check cache
	b, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if ok && len(b) > 0 {
		var out []market.PricePoint
		if err := json.Unmarshal(b, &out); err == nil {
			c.metrics.CacheHit(backend)
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.store.Del(ctx, key)
	}
	c.metrics.CacheMiss(backend)

	// 2) Fallback to the underlying repository
	out, err := c.inner.Find(ctx, asset, since)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.store.Set(ctx, key, b, c.ttlFor(c.now())); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return out, nil
}

// Invalidate drops every cached query of asset.
func (c *CachingPriceRepository) Invalidate(ctx context.Context, asset string) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.DeletePrefix(ctx, c.cacheKeyPrefix(asset)); err != nil {
		return fmt.Errorf("invalidate %s: %w", asset, err)
	}
	return nil
}

// ttlFor caps the TTL at the next UTC day boundary, when daily bars roll over.
func (c *CachingPriceRepository) ttlFor(now time.Time) time.Duration {
	if until := TimeUntilNextUTCDay(now); until < c.ttl {
		return until
	}
	return c.ttl
}

// cacheKey generates a cache key for a specific query.
func (c *CachingPriceRepository) cacheKey(asset string, since time.Time) string {
	return fmt.Sprintf("%s:%s:%d", c.namespace, safe(asset), since.UTC().Unix())
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingPriceRepository) cacheKeyPrefix(asset string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(asset))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
