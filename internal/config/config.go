package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the scanner
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// Upstream prices API
	API APIConfig

	// Redis payload cache (optional)
	Redis RedisConfig

	// Scanner behavior
	Scanner ScannerConfig

	// Output
	Output OutputConfig
}

// APIConfig holds the real-time prices API configuration
type APIConfig struct {
	BaseURL   string
	UserAgent string
	Contact   string
	Timeout   time.Duration
}

// RedisConfig holds the optional response-cache configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// ScannerConfig holds scan behavior configuration
type ScannerConfig struct {
	// FilterSpecPath points at a persisted filter specification; empty
	// means the built-in default spec.
	FilterSpecPath string

	// ItemIDs restricts the scan to specific items; empty scans the
	// whole catalog.
	ItemIDs []int

	// MaxItems caps the candidate set after the cheap scan (0 = no cap).
	MaxItems int

	// RejectionPolicy overrides the spec's policy when non-empty.
	RejectionPolicy string

	// MetricsPort serves Prometheus metrics while a scan runs (0 = off).
	MetricsPort int
}

// OutputConfig holds report and plot output configuration
type OutputConfig struct {
	SortKey  string
	SortDesc bool
	PlotDir  string
}

// Load loads configuration from environment variables.
// It automatically loads a .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		API: APIConfig{
			BaseURL:   getEnv("PRICES_API_BASE_URL", "https://prices.runescape.wiki/api/v1/osrs"),
			UserAgent: getEnv("PRICES_API_USER_AGENT", "flip-scanner"),
			Contact:   getEnv("PRICES_API_CONTACT", ""),
			Timeout:   getEnvAsDuration("PRICES_API_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_CACHE_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("REDIS_CACHE_TTL", 5*time.Minute),
		},
		Scanner: ScannerConfig{
			FilterSpecPath:  getEnv("SCANNER_FILTER_SPEC", ""),
			ItemIDs:         getEnvAsIntSlice("SCANNER_ITEM_IDS", nil),
			MaxItems:        getEnvAsInt("SCANNER_MAX_ITEMS", 200),
			RejectionPolicy: getEnv("SCANNER_REJECTION_POLICY", ""),
			MetricsPort:     getEnvAsInt("SCANNER_METRICS_PORT", 0),
		},
		Output: OutputConfig{
			SortKey:  getEnv("OUTPUT_SORT_KEY", ""),
			SortDesc: getEnvAsBool("OUTPUT_SORT_DESC", true),
			PlotDir:  getEnv("OUTPUT_PLOT_DIR", "plots"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("PRICES_API_BASE_URL is required")
	}
	if c.API.UserAgent == "" {
		return fmt.Errorf("PRICES_API_USER_AGENT is required")
	}
	if c.Scanner.MaxItems < 0 {
		return fmt.Errorf("SCANNER_MAX_ITEMS must be >= 0")
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when the cache is enabled")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvAsIntSlice(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			continue
		}
		result = append(result, n)
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
