package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
	"contentagent.app/errors"
)

const (
	maxRedisDB     = 15
	maxPortNumber  = 65535
	maxTTLSeconds  = 86400
	minCacheBytes  = 1024
	maxTemperature = 1.0
)

// Config represents the application configuration structure
type Config struct {
	Server   ServerConfig   `split_words:"true"`
	Database DatabaseConfig `split_words:"true"`
	Cache    CacheConfig    `split_words:"true"`
	Gemini   GeminiConfig   `split_words:"true"`
	Search   SearchConfig   `split_words:"true"`
	Output   OutputConfig   `split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig contains settings for the generation history database
type DatabaseConfig struct {
	Path string `envconfig:"DB_PATH" default:"contentagent.db"`
}

// CacheConfig contains settings for the tiered result cache
type CacheConfig struct {
	Enabled           bool   `envconfig:"CACHE_ENABLED" default:"true"`
	MaxBytes          int64  `envconfig:"CACHE_MAX_BYTES" default:"52428800"`
	DefaultTTLSeconds int    `envconfig:"CACHE_DEFAULT_TTL_SECONDS" default:"3600"`
	RedisAddr         string `envconfig:"CACHE_REDIS_ADDR"`
	RedisPassword     string `envconfig:"CACHE_REDIS_PASSWORD"`
	RedisDB           int    `envconfig:"CACHE_REDIS_DB" default:"0"`
	DialTimeout       int    `envconfig:"CACHE_REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout       int    `envconfig:"CACHE_REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout      int    `envconfig:"CACHE_REDIS_WRITE_TIMEOUT" default:"3"`
}

// RedisEnabled reports whether a shared cache tier has been configured
func (c *CacheConfig) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// GeminiConfig contains settings for the Gemini generation API
type GeminiConfig struct {
	APIKey            string  `envconfig:"GEMINI_API_KEY"`
	BaseURL           string  `envconfig:"GEMINI_API_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	Models            string  `envconfig:"GEMINI_MODELS" default:"gemini-2.0-flash-exp,gemini-1.5-flash-latest,gemini-1.5-pro-latest"`
	Temperature       float64 `envconfig:"GEMINI_TEMPERATURE" default:"0.75"`
	MaxOutputTokens   int     `envconfig:"GEMINI_MAX_OUTPUT_TOKENS" default:"8000"`
	TimeoutSeconds    int     `envconfig:"GEMINI_TIMEOUT_SECONDS" default:"120"`
	MaxRetries        int     `envconfig:"GEMINI_MAX_RETRIES" default:"3"`
	RetryDelaySeconds int     `envconfig:"GEMINI_RETRY_DELAY_SECONDS" default:"2"`
}

// ModelList returns the configured model names in fallback order
func (g *GeminiConfig) ModelList() []string {
	parts := strings.Split(g.Models, ",")
	models := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	return models
}

// SearchConfig contains settings for the news search providers
type SearchConfig struct {
	TimeoutSeconds      int      `envconfig:"SEARCH_TIMEOUT_SECONDS" default:"15"`
	MaxResultsPerSource int      `envconfig:"SEARCH_MAX_RESULTS_PER_SOURCE" default:"20"`
	UserAgent           string   `envconfig:"SEARCH_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0"`
	Sources             []string `envconfig:"SEARCH_SOURCES" default:"google_news,duckduckgo"`
	TrustedDomains      []string `envconfig:"SEARCH_TRUSTED_DOMAINS" default:"thehindu.com,indianexpress.com,ndtv.com,hindustantimes.com,timesofindia.indiatimes.com"`
	CacheTTLSeconds     int      `envconfig:"SEARCH_CACHE_TTL_SECONDS" default:"1800"`
}

// OutputConfig contains settings for generated documents
type OutputConfig struct {
	Dir               string `envconfig:"OUTPUT_DIR" default:"outputs"`
	LongScriptMinutes int    `envconfig:"OUTPUT_LONG_SCRIPT_MINUTES" default:"20"`
	ShortsVariants    int    `envconfig:"OUTPUT_SHORTS_VARIANTS" default:"3"`
	TitlesCount       int    `envconfig:"OUTPUT_TITLES_COUNT" default:"12"`
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Gemini.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// Validate checks database configuration
func (d *DatabaseConfig) Validate() error {
	if d.Path == "" {
		return errors.NewConfigurationError("DB_PATH cannot be empty", nil)
	}
	return nil
}

// Validate checks cache configuration
func (c *CacheConfig) Validate() error {
	if c.MaxBytes < minCacheBytes {
		return errors.NewConfigurationError("CACHE_MAX_BYTES must be at least 1024", nil)
	}
	if c.DefaultTTLSeconds < 1 || c.DefaultTTLSeconds > maxTTLSeconds {
		return errors.NewConfigurationError("CACHE_DEFAULT_TTL_SECONDS must be between 1 and 86400", nil)
	}
	if c.RedisDB < 0 || c.RedisDB > maxRedisDB {
		return errors.NewConfigurationError("CACHE_REDIS_DB must be between 0 and 15", nil)
	}
	if c.DialTimeout < 1 || c.ReadTimeout < 1 || c.WriteTimeout < 1 {
		return errors.NewConfigurationError("cache redis timeouts must be positive", nil)
	}
	return nil
}

// Validate checks Gemini configuration
func (g *GeminiConfig) Validate() error {
	if len(g.ModelList()) == 0 {
		return errors.NewConfigurationError("GEMINI_MODELS must list at least one model", nil)
	}
	if g.Temperature < 0 || g.Temperature > maxTemperature {
		return errors.NewConfigurationError("GEMINI_TEMPERATURE must be between 0 and 1", nil)
	}
	if g.MaxOutputTokens < 1 {
		return errors.NewConfigurationError("GEMINI_MAX_OUTPUT_TOKENS must be positive", nil)
	}
	if g.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("GEMINI_TIMEOUT_SECONDS must be at least 1", nil)
	}
	if g.MaxRetries < 0 {
		return errors.NewConfigurationError("GEMINI_MAX_RETRIES cannot be negative", nil)
	}
	if !strings.HasPrefix(g.BaseURL, "http://") && !strings.HasPrefix(g.BaseURL, "https://") {
		return errors.NewConfigurationError("GEMINI_API_BASE_URL must start with http:// or https://", nil)
	}
	return nil
}

// Validate checks search configuration
func (s *SearchConfig) Validate() error {
	if s.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("SEARCH_TIMEOUT_SECONDS must be at least 1", nil)
	}
	if s.MaxResultsPerSource < 1 {
		return errors.NewConfigurationError("SEARCH_MAX_RESULTS_PER_SOURCE must be positive", nil)
	}
	if len(s.Sources) == 0 {
		return errors.NewConfigurationError("SEARCH_SOURCES must list at least one source", nil)
	}
	if s.CacheTTLSeconds < 0 {
		return errors.NewConfigurationError("SEARCH_CACHE_TTL_SECONDS cannot be negative", nil)
	}
	return nil
}

// Validate checks output configuration
func (o *OutputConfig) Validate() error {
	if o.Dir == "" {
		return errors.NewConfigurationError("OUTPUT_DIR cannot be empty", nil)
	}
	if o.LongScriptMinutes < 1 {
		return errors.NewConfigurationError("OUTPUT_LONG_SCRIPT_MINUTES must be positive", nil)
	}
	if o.ShortsVariants < 1 {
		return errors.NewConfigurationError("OUTPUT_SHORTS_VARIANTS must be positive", nil)
	}
	if o.TitlesCount < 1 {
		return errors.NewConfigurationError("OUTPUT_TITLES_COUNT must be positive", nil)
	}
	return nil
}
