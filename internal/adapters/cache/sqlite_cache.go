package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/nb-spam-filter/internal/core"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite implementation of core.PredictionCache. Times are
// stored as unix nanoseconds.
type SQLiteCache struct {
	db       *sql.DB
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSQLiteCache creates a new SQLite cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS prediction_cache (
			cache_key TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			spam_probability REAL NOT NULL,
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_prediction_expires_at ON prediction_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
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
func (c *SQLiteCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
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
func (c *SQLiteCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO prediction_cache (cache_key, label, spam_probability, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.Key, string(entry.Label), entry.SpamProbability, entry.CreatedAt.UnixNano(), toUnixNano(entry.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM prediction_cache
		WHERE cache_key = ?
	`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM prediction_cache
		WHERE expires_at <= ?
	`, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Close stops the background cleanup task and closes the database connection
func (c *SQLiteCache) Close() error {
	var err error
	c.stopOnce.Do(func() {
		close(c.stopCh)
		err = c.db.Close()
	})
	return err
}

// toUnixNano maps the zero time, which never expires, to the largest
// timestamp so range queries keep working.
func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return math.MaxInt64
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == math.MaxInt64 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
