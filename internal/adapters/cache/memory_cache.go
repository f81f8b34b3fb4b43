// Package cache implements core.PredictionCache on memory, SQLite, MySQL
// and Redis.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/nb-spam-filter/internal/core"
	"go.uber.org/zap"
)

// MemoryCache is an in-memory implementation of core.PredictionCache
type MemoryCache struct {
	entries     map[string]core.CacheEntry
	mu          sync.RWMutex
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMemoryCache creates a new in-memory cache. A positive cleanupFreq
// starts a background task evicting expired entries.
func NewMemoryCache(logger *zap.Logger, cleanupFreq time.Duration) *MemoryCache {
	cache := &MemoryCache{
		entries:     make(map[string]core.CacheEntry),
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go runCleanup(cache, cleanupFreq, cache.stopCh, logger)
	}

	return cache
}

// Get retrieves a cached prediction
func (c *MemoryCache) Get(_ context.Context, key string) (*core.CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || entry.Expired(time.Now()) {
		return nil, core.ErrCacheMiss
	}
	return &entry, nil
}

// Set stores a cached prediction
func (c *MemoryCache) Set(_ context.Context, entry *core.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[entry.Key] = *entry
	return nil
}

// Delete removes a cache entry
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Cleanup removes expired entries
func (c *MemoryCache) Cleanup(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for key, entry := range c.entries {
		if entry.Expired(now) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background cleanup task
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}

// runCleanup calls Cleanup every freq until stop is closed.
func runCleanup(c core.PredictionCache, freq time.Duration, stop <-chan struct{}, logger *zap.Logger) {
	ticker := time.NewTicker(freq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-stop:
			return
		}
	}
}
