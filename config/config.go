package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Engine     EngineConfig
	Classifier ClassifierConfig
	Cache      CacheConfig
	Store      StoreConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EngineConfig holds extraction/mapping engine configuration
type EngineConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// ClassifierConfig holds page-classifier thresholds
type ClassifierConfig struct {
	PermissiveThreshold float64 `mapstructure:"permissive_threshold"`
	StrictThreshold     float64 `mapstructure:"strict_threshold"`
}

// CacheConfig holds classification-cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// StoreConfig holds record-store configuration
type StoreConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP float64 `mapstructure:"per_ip"` // requests per second per client
	Burst int     `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/orderlens/")

	// Environment variable settings: nested keys map to underscored vars,
	// e.g. store.redis_url -> ORDERLENS_STORE_REDIS_URL
	v.SetEnvPrefix("ORDERLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	// Engine defaults
	v.SetDefault("engine.enable_debug_logging", false)

	// Classifier defaults: permissive mode scores pages for the popup,
	// strict mode gates what gets stored
	v.SetDefault("classifier.permissive_threshold", 0.5)
	v.SetDefault("classifier.strict_threshold", 0.7)

	// Classification cache defaults
	v.SetDefault("cache.ttl", "5m")

	// Record store defaults. redis_url needs a default too: AutomaticEnv
	// only surfaces keys viper already knows about, so without it
	// ORDERLENS_STORE_REDIS_URL would never reach Unmarshal.
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.redis_url", "")
	v.SetDefault("store.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 10)
	v.SetDefault("ratelimit.burst", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.Type != "memory" && config.Store.Type != "redis" {
		return fmt.Errorf("store type must be 'memory' or 'redis', got: %s", config.Store.Type)
	}

	if config.Store.Type == "redis" && config.Store.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when store type is 'redis'")
	}

	if t := config.Classifier.PermissiveThreshold; t < 0 || t > 1 {
		return fmt.Errorf("permissive threshold must be in [0,1], got: %v", t)
	}
	if t := config.Classifier.StrictThreshold; t < 0 || t > 1 {
		return fmt.Errorf("strict threshold must be in [0,1], got: %v", t)
	}
	if config.Classifier.StrictThreshold < config.Classifier.PermissiveThreshold {
		return fmt.Errorf("strict threshold must not be below the permissive threshold")
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %v", config.RateLimit.PerIP)
	}

	return nil
}
