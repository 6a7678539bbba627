package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Catalog sources
const (
	CatalogEmbedded = "embedded"
	CatalogFile     = "file"
	CatalogFeed     = "feed"
)

// Profile store types
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Store     StoreConfig     `mapstructure:"store"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects where products come from
type CatalogConfig struct {
	Source     string        `mapstructure:"source"` // "embedded", "file" or "feed"
	Path       string        `mapstructure:"path"`
	FeedURL    string        `mapstructure:"feed_url"`
	APIKey     string        `mapstructure:"api_key"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// StoreConfig holds profile store configuration
type StoreConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "badger"
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client IP
	Feed  int `mapstructure:"feed"`   // catalog feed requests per hour
}

// MatchingConfig tunes the scoring engine
type MatchingConfig struct {
	DefaultPricePreference float64 `mapstructure:"default_price_preference"`
	Parallelism            int     `mapstructure:"parallelism"`
	EnableDebugLogging     bool    `mapstructure:"enable_debug_logging"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/skinmatch/")

	// SKINMATCH_SERVER_PORT -> server.port
	v.SetEnvPrefix("SKINMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory. Variables already set
// in the environment win, and a missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("catalog.source", CatalogEmbedded)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.feed_url", "")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.refresh_ttl", "15m")

	v.SetDefault("store.type", StoreMemory)
	v.SetDefault("store.path", "")
	v.SetDefault("store.ttl", "720h") // 30 days

	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.feed", 600)

	v.SetDefault("matching.default_price_preference", 50.0)
	v.SetDefault("matching.parallelism", 4)
	v.SetDefault("matching.enable_debug_logging", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Store.Type {
	case StoreMemory:
	case StoreBadger:
		if config.Store.Path == "" {
			return fmt.Errorf("store path is required when store type is 'badger' (set SKINMATCH_STORE_PATH)")
		}
	default:
		return fmt.Errorf("store type must be 'memory' or 'badger', got: %s", config.Store.Type)
	}

	switch config.Catalog.Source {
	case CatalogEmbedded:
	case CatalogFile:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is 'file' (set SKINMATCH_CATALOG_PATH)")
		}
	case CatalogFeed:
		if config.Catalog.FeedURL == "" {
			return fmt.Errorf("feed URL is required when catalog source is 'feed' (set SKINMATCH_CATALOG_FEED_URL)")
		}
	default:
		return fmt.Errorf("catalog source must be 'embedded', 'file' or 'feed', got: %s", config.Catalog.Source)
	}

	if config.Matching.DefaultPricePreference < 0 {
		return fmt.Errorf("matching default price preference must not be negative, got: %v", config.Matching.DefaultPricePreference)
	}

	if config.Matching.Parallelism < 1 {
		return fmt.Errorf("matching parallelism must be at least 1, got: %d", config.Matching.Parallelism)
	}

	if config.Logging.Format != "" && config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	return nil
}
