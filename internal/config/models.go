package config

import (
	"fmt"
	"time"
)

// DatasetConfig represents where training data is read from
type DatasetConfig struct {
	Path            string
	Encoding        string
	FallbackBuiltin bool
	S3Region        string
}

// SplitConfig represents the train/test split
type SplitConfig struct {
	TestSize float64
	Seed     uint64
	Stratify bool
}

// VectorizerConfig represents the TF-IDF vectorizer settings
type VectorizerConfig struct {
	MaxFeatures    int
	MinTokenLength int
	Normalize      bool
}

// ClassifierConfig represents the naive Bayes settings
type ClassifierConfig struct {
	Alpha float64
}

// PipelineConfig represents prediction concurrency
type PipelineConfig struct {
	Workers int
}

// CacheConfig represents the prediction cache
type CacheConfig struct {
	Enabled          bool
	Type             string
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	RedisURL         string
}

// ReviewConfig represents the LLM second opinion
type ReviewConfig struct {
	Enabled       bool
	Provider      string
	Lower         float64
	Upper         float64
	Override      bool
	RatePerSecond float64
	Burst         int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// LoggingConfig represents the logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// GetDataset returns the dataset configuration
func (c *Config) GetDataset() DatasetConfig {
	return DatasetConfig{
		Path:            c.GetString("dataset.path"),
		Encoding:        c.GetString("dataset.encoding"),
		FallbackBuiltin: c.GetBool("dataset.fallback_builtin"),
		S3Region:        c.GetString("dataset.s3_region"),
	}
}

// GetSplit returns the split configuration
func (c *Config) GetSplit() (SplitConfig, error) {
	size := c.GetFloat64("split.test_size")
	if size < 0 || size >= 1 {
		return SplitConfig{}, fmt.Errorf("split.test_size must be in [0, 1), got %v", size)
	}
	return SplitConfig{
		TestSize: size,
		Seed:     c.GetUint64("split.seed"),
		Stratify: c.GetBool("split.stratify"),
	}, nil
}

// GetVectorizer returns the vectorizer configuration
func (c *Config) GetVectorizer() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures:    c.GetInt("vectorizer.max_features"),
		MinTokenLength: c.GetInt("vectorizer.min_token_length"),
		Normalize:      c.GetBool("vectorizer.normalize"),
	}
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Alpha: c.GetFloat64("classifier.alpha"),
	}
}

// GetPipeline returns the pipeline configuration
func (c *Config) GetPipeline() PipelineConfig {
	return PipelineConfig{
		Workers: c.GetInt("pipeline.workers"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Enabled:          c.GetBool("cache.enabled"),
		Type:             c.GetString("cache.type"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
		RedisURL:         c.GetString("cache.redis_url"),
	}, nil
}

// GetReview returns the review configuration
func (c *Config) GetReview() (ReviewConfig, error) {
	rc := ReviewConfig{
		Enabled:       c.GetBool("review.enabled"),
		Provider:      c.GetString("review.provider"),
		Lower:         c.GetFloat64("review.lower"),
		Upper:         c.GetFloat64("review.upper"),
		Override:      c.GetBool("review.override"),
		RatePerSecond: c.GetFloat64("review.rate_per_second"),
		Burst:         c.GetInt("review.burst"),
	}
	if rc.Lower > rc.Upper {
		return ReviewConfig{}, fmt.Errorf("review.lower %v exceeds review.upper %v", rc.Lower, rc.Upper)
	}
	return rc, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetLogging returns the logging configuration
func (c *Config) GetLogging() LoggingConfig {
	return LoggingConfig{
		Level:  c.GetString("logging.level"),
		Format: c.GetString("logging.format"),
	}
}

// ReportFormat returns the training report format
func (c *Config) ReportFormat() string {
	return c.GetString("report.format")
}
