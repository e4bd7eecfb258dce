package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gridlytics/gridlytics-go/internal/database"
)

// SeriesCacheStats is a snapshot of the cache performance counters.
type SeriesCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// SeriesCache caches fetched EIA record arrays in Redis so repeated analyses
// of the same region within the TTL do not re-hit the upstream API. A nil
// cache is valid and behaves as a permanent miss.
type SeriesCache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	prefix string
	logger *logrus.Logger

	statsMu sync.Mutex
	stats   SeriesCacheStats
}

// NewSeriesCache creates a Redis-backed series cache.
func NewSeriesCache(redisClient *database.RedisClient, ttl time.Duration, logger *logrus.Logger) *SeriesCache {
	return &SeriesCache{
		redis:  redisClient,
		ttl:    ttl,
		prefix: "series_cache:",
		logger: logger,
	}
}

// Get unmarshals a cached record array into out. The return reports whether
// the key was present and decodable.
func (c *SeriesCache) Get(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.redis == nil {
		return false
	}

	data, err := c.redis.Get(ctx, c.prefix+key)
	if err == redis.Nil {
		c.miss()
		return false
	}
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Debug("Series cache read failed")
		c.miss()
		return false
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Discarding undecodable series cache entry")
		c.miss()
		return false
	}

	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
	return true
}

// Set stores a record array under the cache TTL. Failures are logged and
// swallowed; caching is best-effort.
func (c *SeriesCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.redis == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to marshal series for caching")
		return
	}

	if err := c.redis.Set(ctx, c.prefix+key, string(data), c.ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Debug("Series cache write failed")
		return
	}

	c.statsMu.Lock()
	c.stats.Sets++
	c.statsMu.Unlock()
}

// Stats returns a snapshot of the hit/miss counters.
func (c *SeriesCache) Stats() SeriesCacheStats {
	if c == nil {
		return SeriesCacheStats{}
	}
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

func (c *SeriesCache) miss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
}
