package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/nb-spam-filter/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "spam-detector:prediction:"

// RedisCache is a Redis implementation of core.PredictionCache. Expiry is
// delegated to key TTLs.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

type redisEntry struct {
	Label           core.Label `json:"label"`
	SpamProbability float64    `json:"spam_probability"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
}

// NewRedisCache connects to redisURL, e.g. redis://localhost:6379/0.
func NewRedisCache(ctx context.Context, redisURL string, logger *zap.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, logger: logger}, nil
}

// Get retrieves a cached prediction
func (c *RedisCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	var e redisEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	entry := &core.CacheEntry{
		Key:             key,
		Label:           e.Label,
		SpamProbability: e.SpamProbability,
		CreatedAt:       e.CreatedAt,
		ExpiresAt:       e.ExpiresAt,
	}
	if entry.Expired(time.Now()) {
		return nil, core.ErrCacheMiss
	}
	return entry, nil
}

// Set stores a cached prediction with the remaining lifetime as TTL
func (c *RedisCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	var ttl time.Duration
	if !entry.ExpiresAt.IsZero() {
		ttl = time.Until(entry.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}

	data, err := json.Marshal(redisEntry{
		Label:           entry.Label,
		SpamProbability: entry.SpamProbability,
		CreatedAt:       entry.CreatedAt,
		ExpiresAt:       entry.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+entry.Key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup is a no-op; Redis expires keys itself.
func (c *RedisCache) Cleanup(context.Context) error {
	return nil
}

// Close closes the client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
