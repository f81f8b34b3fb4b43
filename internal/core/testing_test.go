package core

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/nb-spam-filter/internal/classifier"
	"github.com/mikey/nb-spam-filter/internal/vectorizer"
	"github.com/stretchr/testify/mock"
)

func toyOptions() PipelineOptions {
	return PipelineOptions{
		Vectorizer: vectorizer.DefaultOptions(),
		Classifier: classifier.Options{Alpha: classifier.DefaultAlpha},
	}
}

// toyRecords is a five row dataset with spam-correlated keywords.
func toyRecords() []Record {
	return []Record{
		{Text: "Hey, are we still meeting tomorrow to discuss the project plan?", Label: Ham},
		{Text: "Please send me the project report before the meeting tomorrow.", Label: Ham},
		{Text: "Can we reschedule our lunch to next week? Let me know.", Label: Ham},
		{Text: "URGENT! You have won a FREE prize. Claim your free reward now!", Label: Spam},
		{Text: "Congratulations, you win a FREE iPhone! Urgent: click to claim your free gift.", Label: Spam},
	}
}

type staticSource struct {
	ds  *Dataset
	err error
}

func (s *staticSource) Load(context.Context) (*Dataset, error) {
	return s.ds, s.err
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*CacheEntry)}
}

func (c *mapCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.Expired(time.Now()) {
		return nil, ErrCacheMiss
	}
	return e, nil
}

func (c *mapCache) Set(_ context.Context, e *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.Key] = e
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *mapCache) Cleanup(context.Context) error {
	return nil
}

type mockReviewer struct {
	mock.Mock
}

func (m *mockReviewer) Review(ctx context.Context, text string) (*Review, error) {
	args := m.Called(ctx, text)
	r, _ := args.Get(0).(*Review)
	return r, args.Error(1)
}
