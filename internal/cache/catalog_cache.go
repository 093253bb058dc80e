package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/market_api/internal/metrics"
)

// store is the subset of RedisClient the catalog cache needs.
type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// CatalogCache caches brand and category listings as JSON. Redis faults are
// logged and treated as misses so the catalog stays readable without Redis.
type CatalogCache struct {
	redis store
	ttl   time.Duration
}

// NewCatalogCache creates a CatalogCache whose entries live for ttl.
func NewCatalogCache(redis *RedisClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{redis: redis, ttl: ttl}
}

// Get decodes the entry under key into dst and reports whether it was found.
func (c *CatalogCache) Get(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheLookup("miss")
		} else {
			metrics.RecordCacheLookup("error")
			log.Warn().Err(err).Str("key", key).Msg("Catalog cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		metrics.RecordCacheLookup("error")
		log.Warn().Err(err).Str("key", key).Msg("Catalog cache entry is corrupt")
		return false
	}
	metrics.RecordCacheLookup("hit")
	return true
}

// Set stores v under key.
func (c *CatalogCache) Set(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to marshal catalog cache entry")
		return
	}
	if err := c.redis.Set(ctx, key, string(data), c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Catalog cache write failed")
	}
}

// Invalidate drops every entry whose key starts with prefix.
func (c *CatalogCache) Invalidate(ctx context.Context, prefix string) {
	if err := c.redis.DeleteByPrefix(ctx, prefix); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("Catalog cache invalidation failed")
	}
}
