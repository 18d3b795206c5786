package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds catalog store configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// MatchingConfig holds pipeline tuning configuration
type MatchingConfig struct {
	RecencyWindow    time.Duration `mapstructure:"recency_window"`
	WorkerLimit      int           `mapstructure:"worker_limit"`
	FuzzyMaxDistance int           `mapstructure:"fuzzy_max_distance"`
	FuzzySampleLimit int           `mapstructure:"fuzzy_sample_limit"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/deals-spotter/")

	// Environment variable settings
	v.SetEnvPrefix("DEALSSPOTTER")
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
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.path", "deals.db")

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")
	v.SetDefault("cache.max_entries", 1000)

	// Matching defaults
	v.SetDefault("matching.recency_window", "168h") // 7 days
	v.SetDefault("matching.worker_limit", 8)
	v.SetDefault("matching.fuzzy_max_distance", 2)
	v.SetDefault("matching.fuzzy_sample_limit", 500)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_second", 20)
	v.SetDefault("ratelimit.burst", 40)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/deals-spotter.log")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required (set DEALSSPOTTER_DATABASE_PATH)")
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive, got: %d", config.Cache.MaxEntries)
	}

	if config.Matching.WorkerLimit <= 0 {
		return fmt.Errorf("matching worker limit must be positive, got: %d", config.Matching.WorkerLimit)
	}

	return nil
}
