// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/moviehub/review/internal/constants"
)

const (
	// Default configuration file name
	defaultConfigFile = "config.json"
	// Default database path
	defaultDatabasePath = "./moviehub.db"
)

// Config holds the application configuration.
// It supports loading from a .env file, environment variables and a JSON file.
type Config struct {
	// Catalog provider
	TMDBAPIKey  string `json:"TMDB_API_KEY"`
	TMDBBaseURL string `json:"TMDB_API_BASE"`
	Language    string `json:"LANGUAGE"`
	Region      string `json:"REGION"`

	// Sync schedule
	SyncStartYear int           `json:"SYNC_START_YEAR"`
	SyncInterval  time.Duration `json:"-"`

	// Storage settings
	DatabasePath string `json:"DATABASE_PATH"`
	CacheSize    int    `json:"CACHE_SIZE"`
	CacheTTL     time.Duration `json:"-"`

	// HTTP server
	Port string `json:"PORT"`
}

// Load reads configuration from a .env file (if present), environment
// variables and an optional JSON file. Environment variables take precedence
// over file values. Returns an error if the configuration is invalid.
func Load() (*Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load(".env")

	cfg := &Config{
		TMDBBaseURL:   constants.DefaultTMDBBaseURL,
		Language:      constants.DefaultLanguage,
		Region:        constants.DefaultRegion,
		SyncStartYear: constants.DefaultSyncStartYear,
		SyncInterval:  constants.DefaultSyncInterval,
		DatabasePath:  getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		CacheSize:     constants.DefaultCacheSize,
		CacheTTL:      time.Duration(constants.DefaultCacheTTL) * time.Hour,
		Port:          constants.DefaultPort,
	}

	// Load from config file if exists
	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		// Ignore file not found errors
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Environment variables win over file values
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if key := os.Getenv("TMDB_API_KEY"); key != "" {
		c.TMDBAPIKey = key
	}
	if base := os.Getenv("TMDB_API_BASE"); base != "" {
		c.TMDBBaseURL = base
	}
	if lang := os.Getenv("LANGUAGE"); lang != "" {
		c.Language = lang
	}
	if region := os.Getenv("REGION"); region != "" {
		c.Region = region
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		c.DatabasePath = path
	}
	if year := os.Getenv("SYNC_START_YEAR"); year != "" {
		if parsed, err := strconv.Atoi(year); err == nil {
			c.SyncStartYear = parsed
		}
	}
	if interval := os.Getenv("SYNC_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			c.SyncInterval = parsed
		}
	}
	if size := os.Getenv("CACHE_SIZE"); size != "" {
		if parsed, err := strconv.Atoi(size); err == nil {
			c.CacheSize = parsed
		}
	}
	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			c.CacheTTL = parsed
		}
	}
}

// loadFromFile loads configuration from a JSON file.
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// Validate checks if the configuration is valid.
// An empty TMDB API key is valid: it disables catalog sync, not the process.
func (c *Config) Validate() error {
	if c.SyncStartYear < 1888 || c.SyncStartYear > time.Now().Year() {
		return fmt.Errorf("SYNC_START_YEAR %d out of range", c.SyncStartYear)
	}
	if c.SyncInterval < time.Minute {
		return fmt.Errorf("SYNC_INTERVAL %v too short", c.SyncInterval)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive")
	}
	return nil
}

// SyncEnabled reports whether catalog sync can run at all.
func (c *Config) SyncEnabled() bool {
	return c.TMDBAPIKey != ""
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
