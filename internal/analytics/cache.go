package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"server/internal/domain"
)

const overviewCacheKey = "analytics:overview"

// OverviewCache is a cache-aside layer for the dashboard overview. It is
// optional: a nil cache (no redis configured) always misses, and every redis
// failure degrades to recomputing the payload.
type OverviewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewOverviewCache constructs the cache. Returns nil when client is nil so
// callers can wire it unconditionally.
func NewOverviewCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *OverviewCache {
	if client == nil {
		return nil
	}
	return &OverviewCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached overview, if any.
func (c *OverviewCache) Get(ctx context.Context) (*domain.Overview, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, overviewCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("overview cache get failed")
		}
		return nil, false
	}

	var overview domain.Overview
	if err := json.Unmarshal(data, &overview); err != nil {
		c.logger.Warn().Err(err).Msg("overview cache decode failed")
		c.client.Del(ctx, overviewCacheKey)
		return nil, false
	}
	return &overview, true
}

// Set stores the overview for the configured TTL.
func (c *OverviewCache) Set(ctx context.Context, overview *domain.Overview) {
	if c == nil || overview == nil {
		return
	}

	data, err := json.Marshal(overview)
	if err != nil {
		c.logger.Warn().Err(err).Msg("overview cache encode failed")
		return
	}
	if err := c.client.Set(ctx, overviewCacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("overview cache set failed")
	}
}
