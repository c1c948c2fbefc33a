package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("ORDERLENS_SERVER_PORT")
		os.Unsetenv("ORDERLENS_SERVER_ENVIRONMENT")
		os.Unsetenv("ORDERLENS_ENGINE_ENABLE_DEBUG_LOGGING")
		os.Unsetenv("ORDERLENS_CLASSIFIER_PERMISSIVE_THRESHOLD")
		os.Unsetenv("ORDERLENS_CLASSIFIER_STRICT_THRESHOLD")
		os.Unsetenv("ORDERLENS_CACHE_TTL")
		os.Unsetenv("ORDERLENS_STORE_TYPE")
		os.Unsetenv("ORDERLENS_STORE_REDIS_URL")
		os.Unsetenv("ORDERLENS_STORE_TTL")
		os.Unsetenv("ORDERLENS_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "chrome-extension://*" {
			t.Errorf("Server.AllowedOrigins = %v, want [chrome-extension://*]", cfg.Server.AllowedOrigins)
		}
		if cfg.Classifier.PermissiveThreshold != 0.5 {
			t.Errorf("Classifier.PermissiveThreshold = %v, want 0.5", cfg.Classifier.PermissiveThreshold)
		}
		if cfg.Classifier.StrictThreshold != 0.7 {
			t.Errorf("Classifier.StrictThreshold = %v, want 0.7", cfg.Classifier.StrictThreshold)
		}
		if cfg.Cache.TTL != 5*time.Minute {
			t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
		}
		if cfg.Store.Type != "memory" {
			t.Errorf("Store.Type = %s, want memory", cfg.Store.Type)
		}
		if cfg.Store.TTL != 24*time.Hour {
			t.Errorf("Store.TTL = %v, want 24h", cfg.Store.TTL)
		}
		if cfg.RateLimit.PerIP != 10 {
			t.Errorf("RateLimit.PerIP = %v, want 10", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.Burst != 20 {
			t.Errorf("RateLimit.Burst = %v, want 20", cfg.RateLimit.Burst)
		}
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ORDERLENS_SERVER_PORT", "9090")
		os.Setenv("ORDERLENS_CACHE_TTL", "10m")
		os.Setenv("ORDERLENS_CLASSIFIER_STRICT_THRESHOLD", "0.8")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Cache.TTL != 10*time.Minute {
			t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
		}
		if cfg.Classifier.StrictThreshold != 0.8 {
			t.Errorf("Classifier.StrictThreshold = %v, want 0.8", cfg.Classifier.StrictThreshold)
		}
	})

	t.Run("redis store requires a url", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ORDERLENS_STORE_TYPE", "redis")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want redis url validation error")
		}
	})

	t.Run("redis store accepts a url", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ORDERLENS_STORE_TYPE", "redis")
		os.Setenv("ORDERLENS_STORE_REDIS_URL", "redis://localhost:6379/0")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Store.RedisURL != "redis://localhost:6379/0" {
			t.Errorf("Store.RedisURL = %s", cfg.Store.RedisURL)
		}
	})

	t.Run("rejects unknown store type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ORDERLENS_STORE_TYPE", "dynamo")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want store type validation error")
		}
	})

	t.Run("rejects out-of-range thresholds", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ORDERLENS_CLASSIFIER_PERMISSIVE_THRESHOLD", "1.5")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want threshold validation error")
		}
	})

	t.Run("rejects strict threshold below permissive", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ORDERLENS_CLASSIFIER_PERMISSIVE_THRESHOLD", "0.6")
		os.Setenv("ORDERLENS_CLASSIFIER_STRICT_THRESHOLD", "0.4")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want threshold ordering error")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Classifier: ClassifierConfig{PermissiveThreshold: 0.5, StrictThreshold: 0.7},
			Store:      StoreConfig{Type: "memory"},
			RateLimit:  RateLimitConfig{PerIP: 10, Burst: 20},
		}
	}

	t.Run("accepts a valid config", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("rejects non-positive rate limit", func(t *testing.T) {
		cfg := valid()
		cfg.RateLimit.PerIP = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want rate limit error")
		}
	})
}
