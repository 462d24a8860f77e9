package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	// Unset any env vars that would interfere
	envVars := []string{
		"MANDIWATCH_API_PORT", "MANDIWATCH_API_HOST",
		"MANDIWATCH_CACHE_REFRESH_INTERVAL_SEC", "MANDIWATCH_LOGGING_LEVEL",
	}
	for _, e := range envVars {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}

	// Source defaults
	if cfg.Sources.Exchange.URL == "" {
		t.Error("Sources.Exchange.URL should have a default")
	}
	if cfg.Sources.Exchange.TimeoutSec != 15 {
		t.Errorf("Sources.Exchange.TimeoutSec: got %d, want 15", cfg.Sources.Exchange.TimeoutSec)
	}
	if cfg.Sources.Bullion.TimeoutSec != 10 {
		t.Errorf("Sources.Bullion.TimeoutSec: got %d, want 10", cfg.Sources.Bullion.TimeoutSec)
	}

	// Cache defaults
	if cfg.Cache.RefreshIntervalSec != 180 {
		t.Errorf("Cache.RefreshIntervalSec: got %d, want 180", cfg.Cache.RefreshIntervalSec)
	}

	// News defaults
	if cfg.News.CacheTTLSec != 600 {
		t.Errorf("News.CacheTTLSec: got %d, want 600", cfg.News.CacheTTLSec)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestDurationHelpers(t *testing.T) {
	src := SourceConfig{TimeoutSec: 15}
	if src.Timeout() != 15*time.Second {
		t.Errorf("Timeout() = %v, want 15s", src.Timeout())
	}

	cache := CacheConfig{RefreshIntervalSec: 180}
	if cache.RefreshInterval() != 3*time.Minute {
		t.Errorf("RefreshInterval() = %v, want 3m", cache.RefreshInterval())
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
api:
  host: 127.0.0.1
  port: 9090
  cors_origins:
    - http://localhost:3000
sources:
  exchange:
    url: http://example.test/quotes
    timeout_sec: 5
cache:
  refresh_interval_sec: 60
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host: got %q, want 127.0.0.1", cfg.API.Host)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}
	if cfg.Sources.Exchange.URL != "http://example.test/quotes" {
		t.Errorf("Sources.Exchange.URL: got %q", cfg.Sources.Exchange.URL)
	}
	if cfg.Sources.Exchange.TimeoutSec != 5 {
		t.Errorf("Sources.Exchange.TimeoutSec: got %d, want 5", cfg.Sources.Exchange.TimeoutSec)
	}
	if cfg.Cache.RefreshIntervalSec != 60 {
		t.Errorf("Cache.RefreshIntervalSec: got %d, want 60", cfg.Cache.RefreshIntervalSec)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want json", cfg.Logging.Format)
	}

	// Sections absent from the file keep their defaults.
	if cfg.Sources.Bullion.TimeoutSec != 10 {
		t.Errorf("Sources.Bullion.TimeoutSec: got %d, want default 10", cfg.Sources.Bullion.TimeoutSec)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
