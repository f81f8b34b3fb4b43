package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/nb-spam-filter/internal/core"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL implementation of core.PredictionCache
type MySQLCache struct {
	db       *sql.DB
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS prediction_cache (
			cache_key VARCHAR(64) PRIMARY KEY,
			label VARCHAR(16) NOT NULL,
			spam_probability DOUBLE NOT NULL,
			created_at BIGINT NOT NULL,
			expires_at BIGINT NOT NULL,
			INDEX idx_prediction_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
		db:     db,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go runCleanup(cache, cleanupFreq, cache.stopCh, logger)
	}

	return cache, nil
}

// Get retrieves a cached prediction
func (c *MySQLCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var (
		label               string
		prob                float64
		createdAt, expireAt int64
	)

	err := c.db.QueryRowContext(ctx, `
		SELECT label, spam_probability, created_at, expires_at
		FROM prediction_cache
		WHERE cache_key = ? AND expires_at > ?
	`, key, time.Now().UnixNano()).Scan(&label, &prob, &createdAt, &expireAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	return &core.CacheEntry{
		Key:             key,
		Label:           core.Label(label),
		SpamProbability: prob,
		CreatedAt:       time.Unix(0, createdAt),
		ExpiresAt:       fromUnixNano(expireAt),
	}, nil
}

// Set stores a cached prediction
func (c *MySQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO prediction_cache (cache_key, label, spam_probability, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			label = VALUES(label),
			spam_probability = VALUES(spam_probability),
			created_at = VALUES(created_at),
			expires_at = VALUES(expires_at)
	`, entry.Key, string(entry.Label), entry.SpamProbability, entry.CreatedAt.UnixNano(), toUnixNano(entry.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *MySQLCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM prediction_cache WHERE cache_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM prediction_cache WHERE expires_at <= ?`, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	if rowsAffected, err := result.RowsAffected(); err == nil {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Close stops the background cleanup task and closes the database connection
func (c *MySQLCache) Close() error {
	var err error
	c.stopOnce.Do(func() {
		close(c.stopCh)
		err = c.db.Close()
	})
	return err
}
