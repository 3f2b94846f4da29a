// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (PORTAL_* runtime override)
//  2. Config file (~/.ilovegorakhpur/config.yaml or ./config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - Server: HTTP listen address
//   - AI: model selection, persona override, provider rate limits
//   - News: sources for the local-news reader, cache TTL
//   - Observability: OTLP trace export
//
// Security: the Gemini API key is read from the GEMINI_API_KEY environment
// variable only and never stored in the config file or logged.
//
// Error Handling: sentinel errors for Go-idiomatic checks with errors.Is(),
// wrapped with context via fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey indicates GEMINI_API_KEY is not set.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is empty or malformed.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidAddr indicates the server listen address is malformed.
	ErrInvalidAddr = errors.New("invalid server address")

	// ErrInvalidRateLimit indicates a non-positive provider rate limit.
	ErrInvalidRateLimit = errors.New("invalid rate limit")

	// ErrInvalidCacheTTL indicates a non-positive news cache TTL.
	ErrInvalidCacheTTL = errors.New("invalid news cache TTL")

	// ErrInvalidNewsSource indicates a news source without a URL.
	ErrInvalidNewsSource = errors.New("invalid news source")
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

// AIConfig holds assistant settings.
type AIConfig struct {
	Model        string  `mapstructure:"model" json:"model"`
	SystemPrompt string  `mapstructure:"system_prompt" json:"system_prompt"` // empty uses the built-in persona
	RateLimit    float64 `mapstructure:"rate_limit" json:"rate_limit"`       // provider requests per second
	RateBurst    int     `mapstructure:"rate_burst" json:"rate_burst"`
}

// NewsSource is one crawl target for the local-news reader.
type NewsSource struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`

	// LinkSelector is the goquery selector locating article links on the
	// source's listing page. Empty uses a generic anchor selector.
	LinkSelector string `mapstructure:"link_selector" json:"link_selector"`
}

// NewsConfig holds local-news reader settings.
type NewsConfig struct {
	Sources     []NewsSource  `mapstructure:"sources" json:"sources"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
	MaxArticles int           `mapstructure:"max_articles" json:"max_articles"`

	// AllowLocalSources relaxes the crawler's SSRF guard so sources on
	// loopback or private networks can be fetched. Development only.
	AllowLocalSources bool `mapstructure:"allow_local_sources" json:"allow_local_sources"`
}

// ObservabilityConfig holds OTLP trace export settings.
type ObservabilityConfig struct {
	Enabled     bool   `mapstructure:"enabled" json:"enabled"`
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"` // OTLP/HTTP endpoint, host:port
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}

// Config stores the application configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server" json:"server"`
	AI            AIConfig            `mapstructure:"ai" json:"ai"`
	News          NewsConfig          `mapstructure:"news" json:"news"`
	Observability ObservabilityConfig `mapstructure:"observability" json:"observability"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".ilovegorakhpur")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:8420")

	v.SetDefault("ai.model", DefaultModel)
	v.SetDefault("ai.system_prompt", "")
	v.SetDefault("ai.rate_limit", 10.0)
	v.SetDefault("ai.rate_burst", 30)

	v.SetDefault("news.cache_ttl", 15*time.Minute)
	v.SetDefault("news.max_articles", 20)
	v.SetDefault("news.allow_local_sources", false)
	v.SetDefault("news.sources", []map[string]any{})

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.endpoint", "localhost:4318")
	v.SetDefault("observability.service_name", "ilovegorakhpur-portal")
}

// APIKey returns the Gemini API key from the environment.
func APIKey() (string, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return "", fmt.Errorf("%w: set GEMINI_API_KEY", ErrMissingAPIKey)
	}
	return key, nil
}
