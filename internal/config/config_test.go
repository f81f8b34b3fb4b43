package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	ds := cfg.GetDataset()
	assert.Equal(t, "spam.csv", ds.Path)
	assert.Equal(t, "latin-1", ds.Encoding)
	assert.True(t, ds.FallbackBuiltin)

	split, err := cfg.GetSplit()
	require.NoError(t, err)
	assert.Equal(t, SplitConfig{TestSize: 0.2, Seed: 42, Stratify: true}, split)

	assert.Equal(t, VectorizerConfig{MaxFeatures: 5000, MinTokenLength: 2, Normalize: true}, cfg.GetVectorizer())
	assert.Equal(t, 1.0, cfg.GetClassifier().Alpha)
	assert.Equal(t, 4, cfg.GetPipeline().Workers)

	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.True(t, cache.Enabled)
	assert.Equal(t, "memory", cache.Type)
	assert.Equal(t, 24*time.Hour, cache.TTL)
	assert.Equal(t, time.Hour, cache.CleanupFrequency)

	review, err := cfg.GetReview()
	require.NoError(t, err)
	assert.False(t, review.Enabled)
	assert.Equal(t, "bedrock", review.Provider)
	assert.Equal(t, 0.35, review.Lower)
	assert.Equal(t, 0.65, review.Upper)

	assert.Equal(t, "console", cfg.GetLogging().Format)
	assert.Equal(t, "text", cfg.ReportFormat())
	assert.Equal(t, "anthropic.claude-v2", cfg.GetBedrock().ModelID)
	assert.Equal(t, "gpt-4", cfg.GetOpenAI().ModelName)
	assert.Equal(t, "gemini-pro", cfg.GetGemini().ModelName)
}

func TestNew_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detector.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dataset:
  path: s3://corpus/spam.csv.gz
  encoding: utf-8
split:
  test_size: 0.3
  seed: 7
cache:
  type: sqlite
  ttl: 10m
review:
  enabled: true
  provider: openai
`), 0o600))

	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, "s3://corpus/spam.csv.gz", cfg.GetDataset().Path)
	assert.Equal(t, "utf-8", cfg.GetDataset().Encoding)

	split, err := cfg.GetSplit()
	require.NoError(t, err)
	assert.Equal(t, 0.3, split.TestSize)
	assert.Equal(t, uint64(7), split.Seed)
	assert.True(t, split.Stratify)

	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cache.Type)
	assert.Equal(t, 10*time.Minute, cache.TTL)

	review, err := cfg.GetReview()
	require.NoError(t, err)
	assert.True(t, review.Enabled)
	assert.Equal(t, "openai", review.Provider)
}

func TestNew_MissingExplicitFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv("SPAM_FILTER_VECTORIZER_MAX_FEATURES", "123")
	t.Setenv("SPAM_FILTER_LOGGING_LEVEL", "debug")

	cfg, err := New("")
	require.NoError(t, err)
	assert.Equal(t, 123, cfg.GetVectorizer().MaxFeatures)
	assert.Equal(t, "debug", cfg.GetLogging().Level)
}

func TestValidation(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	cfg.Set("split.test_size", 1.5)
	_, err := cfg.GetSplit()
	assert.Error(t, err)

	cfg.Set("review.lower", 0.9)
	cfg.Set("review.upper", 0.1)
	_, err = cfg.GetReview()
	assert.Error(t, err)

	cfg.Set("cache.ttl", "forever")
	_, err = cfg.GetCache()
	assert.Error(t, err)
}
