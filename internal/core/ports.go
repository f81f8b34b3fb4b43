package core

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by a PredictionCache when no valid entry exists.
var ErrCacheMiss = errors.New("prediction cache miss")

// DatasetSource loads labeled records.
type DatasetSource interface {
	// Load returns the records of the source. Implementations drop rows
	// whose label is not ham or spam and report how many were dropped.
	Load(ctx context.Context) (*Dataset, error)
}

// PredictionCache stores model predictions keyed by model fingerprint and
// normalized text.
type PredictionCache interface {
	// Get retrieves an unexpired entry or returns ErrCacheMiss
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores an entry, replacing any previous one with the same key
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes an entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// Reviewer gives a second opinion on a message the model is unsure about.
type Reviewer interface {
	Review(ctx context.Context, text string) (*Review, error)
}
