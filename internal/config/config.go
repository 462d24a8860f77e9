// Package config handles configuration loading for MandiWatch.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Sources SourcesConfig `mapstructure:"sources" yaml:"sources"`
	Cache   CacheConfig   `mapstructure:"cache"   yaml:"cache"`
	News    NewsConfig    `mapstructure:"news"    yaml:"news"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// SourcesConfig holds the upstream page configuration per source.
type SourcesConfig struct {
	Exchange SourceConfig `mapstructure:"exchange" yaml:"exchange"`
	Bullion  SourceConfig `mapstructure:"bullion"  yaml:"bullion"`
}

// SourceConfig identifies one upstream HTML page.
type SourceConfig struct {
	URL        string `mapstructure:"url"         yaml:"url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the source fetch timeout as a duration.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// CacheConfig holds the snapshot staleness window.
type CacheConfig struct {
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// RefreshInterval returns the refresh interval as a duration.
func (c CacheConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// NewsConfig holds the commodity news feed settings.
type NewsConfig struct {
	CacheTTLSec int `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
}

// CacheTTL returns the news cache TTL as a duration.
func (n NewsConfig) CacheTTL() time.Duration {
	return time.Duration(n.CacheTTLSec) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
	File   string `mapstructure:"file"   yaml:"file"`   // optional rotating log file
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.mandiwatch/config.yaml (home directory)
//  3. /etc/mandiwatch/config.yaml (system)
//
// Environment variables override config file values.
// Format: MANDIWATCH_<SECTION>_<KEY>, e.g., MANDIWATCH_API_PORT.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".mandiwatch"))
	v.AddConfigPath("/etc/mandiwatch")

	v.SetEnvPrefix("MANDIWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("MANDIWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Upstream source defaults
	v.SetDefault("sources.exchange.url", "https://commoditiescontrol.com/eagritrader/revamp/long_short_details.php")
	v.SetDefault("sources.exchange.timeout_sec", 15)
	v.SetDefault("sources.bullion.url", "https://www.livechennai.com/gold_silverrate.asp")
	v.SetDefault("sources.bullion.timeout_sec", 10)

	// Snapshot cache defaults
	v.SetDefault("cache.refresh_interval_sec", 180)

	// News defaults
	v.SetDefault("news.cache_ttl_sec", 600)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
