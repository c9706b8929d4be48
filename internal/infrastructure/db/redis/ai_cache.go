package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fishchain/marketplace/internal/api/metrics"
)

const aiCachePrefix = "ai:answer:"

// AICache stores generated AI answers.
// Key format: ai:answer:<operation>:<sha256 of normalized input>
type AICache struct {
	client redis.Cmdable
}

// NewAICache creates an AICache wrapping the given Redis client.
func NewAICache(client redis.Cmdable) *AICache {
	return &AICache{client: client}
}

// Get returns the cached answer for key. A missing key is a miss, not an error.
func (c *AICache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, aiCachePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		metrics.AIRequestsTotal.WithLabelValues("cache", "miss").Inc()
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ai cache get: %w", err)
	}
	metrics.AIRequestsTotal.WithLabelValues("cache", "hit").Inc()
	return val, true, nil
}

// Set stores value under key for ttl.
func (c *AICache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, aiCachePrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("ai cache set: %w", err)
	}
	return nil
}
