package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/nb-spam-filter/internal/adapters/cache"
	"github.com/mikey/nb-spam-filter/internal/config"
	"github.com/mikey/nb-spam-filter/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates prediction caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePredictionCache creates a prediction cache based on the
// configuration. It returns nil when caching is disabled.
func (f *CacheFactory) CreatePredictionCache(ctx context.Context) (core.PredictionCache, error) {
	cc, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}
	if !cc.Enabled {
		return nil, nil
	}

	switch cc.Type {
	case "memory":
		return cache.NewMemoryCache(f.logger, cc.CleanupFrequency), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cc.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return cache.NewSQLiteCache(cc.SQLitePath, f.logger, cc.CleanupFrequency)
	case "mysql":
		return cache.NewMySQLCache(cc.MySQLDSN, f.logger, cc.CleanupFrequency)
	case "redis":
		return cache.NewRedisCache(ctx, cc.RedisURL, f.logger)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cc.Type)
	}
}
