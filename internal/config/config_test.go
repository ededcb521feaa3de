package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Batch.MaxURLs != 100 || cfg.Batch.MaxConcurrency != 5 {
		t.Errorf("Batch = %+v", cfg.Batch)
	}
	if cfg.Store.Backend != "none" {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL_MS", "60000")
	t.Setenv("BATCH_MAX_URLS", "25")
	t.Setenv("SCRAPER_TIMEOUT_MS", "3000")

	cfg := Load()

	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Batch.MaxURLs != 25 {
		t.Errorf("Batch.MaxURLs = %d", cfg.Batch.MaxURLs)
	}
	if cfg.Scraper.Timeout != 3*time.Second {
		t.Errorf("Scraper.Timeout = %v", cfg.Scraper.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"zero batch size", func(c *Config) { c.Batch.MaxURLs = 0 }},
		{"zero concurrency", func(c *Config) { c.Batch.MaxConcurrency = 0 }},
		{"negative retries", func(c *Config) { c.Scraper.MaxRetries = -1 }},
		{"zero rate limit", func(c *Config) { c.RateLimit.Limit = 0 }},
		{"bad store backend", func(c *Config) { c.Store.Backend = "mysql" }},
		{"empty model path", func(c *Config) { c.Predictor.ModelPath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
