package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance. An empty path searches the
// default locations for config.yaml; a missing file there is not an error.
func New(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/spam-detector/")
		v.AddConfigPath("$HOME/.spam-detector")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("SPAM_FILTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Dataset defaults
	v.SetDefault("dataset.path", "spam.csv")
	v.SetDefault("dataset.encoding", "latin-1")
	v.SetDefault("dataset.fallback_builtin", true)
	v.SetDefault("dataset.s3_region", "us-east-1")

	// Split defaults
	v.SetDefault("split.test_size", 0.2)
	v.SetDefault("split.seed", 42)
	v.SetDefault("split.stratify", true)

	// Model defaults
	v.SetDefault("vectorizer.max_features", 5000)
	v.SetDefault("vectorizer.min_token_length", 2)
	v.SetDefault("vectorizer.normalize", true)
	v.SetDefault("classifier.alpha", 1.0)
	v.SetDefault("pipeline.workers", 4)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "/data/prediction_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/spam_detector")
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")

	// Review defaults
	v.SetDefault("review.enabled", false)
	v.SetDefault("review.provider", "bedrock")
	v.SetDefault("review.lower", 0.35)
	v.SetDefault("review.upper", 0.65)
	v.SetDefault("review.override", false)
	v.SetDefault("review.rate_per_second", 2.0)
	v.SetDefault("review.burst", 1)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.temperature", 0.1)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 4096)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 4096)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 4096)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("report.format", "text")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetUint64 gets an unsigned integer value from the configuration
func (c *Config) GetUint64(key string) uint64 {
	return c.v.GetUint64(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	d, err := time.ParseDuration(c.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// Set overrides a configuration value
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
