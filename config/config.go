// ABOUTME: Configuration loader for the Campaign Watch client
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

const (
	DefaultAPIURL   = "https://localhost:5001/api"
	DefaultRedisURL = "redis://localhost:6379/0"
)

type Config struct {
	// API
	APIURL        string
	Timeout       time.Duration
	CacheDuration time.Duration
	MaxRetries    int
	RetryDelay    time.Duration

	// Environment: development enables request/response diagnostics
	Env string

	// Token storage
	TokenStore string // file, redis, memory (default: file)
	Home       string // directory for the file token store
	RedisURL   string

	// Optional ssh+socks5://user@host:port?private-key=/path jump host
	AllProxy string

	// Optional listen address for the prometheus endpoint (TUI mode)
	MetricsAddr string
}

// Dev reports whether development diagnostics are enabled
func (c *Config) Dev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads an optional .env file, then the environment.
// Variables already present in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		APIURL:        ensureScheme(getEnv("CAMPAIGN_WATCH_API_URL", getEnv("VITE_API_URL", DefaultAPIURL))),
		Timeout:       getEnvMillis("CAMPAIGN_WATCH_TIMEOUT_MS", 30000),
		CacheDuration: getEnvMillis("CAMPAIGN_WATCH_CACHE_DURATION_MS", 5*60*1000),
		MaxRetries:    getEnvInt("CAMPAIGN_WATCH_MAX_RETRIES", 3),
		RetryDelay:    getEnvMillis("CAMPAIGN_WATCH_RETRY_DELAY_MS", 1000),

		Env: strings.ToLower(getEnv("CAMPAIGN_WATCH_ENV", "production")),

		TokenStore: strings.ToLower(getEnv("CAMPAIGN_WATCH_TOKEN_STORE", TokenStoreFile)),
		Home:       getEnv("CAMPAIGN_WATCH_HOME", defaultHome()),
		RedisURL:   getEnv("CAMPAIGN_WATCH_REDIS_URL", DefaultRedisURL),

		AllProxy:    os.Getenv("CAMPAIGN_WATCH_ALL_PROXY"),
		MetricsAddr: os.Getenv("CAMPAIGN_WATCH_METRICS_ADDR"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("CAMPAIGN_WATCH_API_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("CAMPAIGN_WATCH_TIMEOUT_MS must be positive, got %s", c.Timeout)
	}
	if c.CacheDuration < 0 {
		return fmt.Errorf("CAMPAIGN_WATCH_CACHE_DURATION_MS must not be negative, got %s", c.CacheDuration)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("CAMPAIGN_WATCH_MAX_RETRIES must be between 0 and 10, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("CAMPAIGN_WATCH_RETRY_DELAY_MS must not be negative, got %s", c.RetryDelay)
	}
	switch c.TokenStore {
	case TokenStoreFile, TokenStoreRedis, TokenStoreMemory:
	default:
		return fmt.Errorf("CAMPAIGN_WATCH_TOKEN_STORE must be one of file, redis, memory, got %q", c.TokenStore)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvMillis(key string, defaultMillis int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMillis)) * time.Millisecond
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".campaign-watch"
	}
	return filepath.Join(home, ".campaign-watch")
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
