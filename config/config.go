// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"ytmovers/internal/retry"
)

// Config holds all application configuration.
// Priority: env vars > config file > defaults.
type Config struct {
	// YouTube Data API key. Required for the fetch, discover and serve
	// pathways; capture and show work without it.
	APIKey string `json:"api_key" env:"YTMOVERS_API_KEY"`

	// File paths
	SnapshotFile string `json:"snapshot_file" env:"YTMOVERS_SNAPSHOT_FILE"`
	GuardFile    string `json:"guard_file" env:"YTMOVERS_GUARD_FILE"`
	ChannelsFile string `json:"channels_file" env:"YTMOVERS_CHANNELS_FILE"`
	KeywordsFile string `json:"keywords_file" env:"YTMOVERS_KEYWORDS_FILE"`
	TrackedFile  string `json:"tracked_file" env:"YTMOVERS_TRACKED_FILE"`

	// Discovery limits
	MaxPerChannel int64 `json:"max_per_channel" env:"YTMOVERS_MAX_PER_CHANNEL"`
	MaxPerKeyword int64 `json:"max_per_keyword" env:"YTMOVERS_MAX_PER_KEYWORD"`

	// Ranking
	TopN int `json:"top_n" env:"YTMOVERS_TOP_N"`

	// Network settings
	FetchTimeout      time.Duration `json:"fetch_timeout" env:"YTMOVERS_FETCH_TIMEOUT"`
	RequestsPerSecond float64       `json:"requests_per_second" env:"YTMOVERS_RPS"`

	// Retry settings
	MaxRetries        int           `json:"max_retries" env:"YTMOVERS_MAX_RETRIES"`
	InitialBackoff    time.Duration `json:"initial_backoff" env:"YTMOVERS_INITIAL_BACKOFF"`
	MaxBackoff        time.Duration `json:"max_backoff" env:"YTMOVERS_MAX_BACKOFF"`
	BackoffMultiplier float64       `json:"backoff_multiplier" env:"YTMOVERS_BACKOFF_MULTIPLIER"`

	// Web dashboard
	ListenAddr   string        `json:"listen_addr" env:"YTMOVERS_LISTEN_ADDR"`
	RefreshEvery time.Duration `json:"refresh_every" env:"YTMOVERS_REFRESH_EVERY"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		SnapshotFile:      "youtube_metrics.json",
		GuardFile:         "last_discover_run.json",
		ChannelsFile:      "channels.json",
		KeywordsFile:      "keywords.json",
		TrackedFile:       "tracked.json",
		MaxPerChannel:     5,
		MaxPerKeyword:     3,
		TopN:              16,
		FetchTimeout:      2 * time.Minute,
		RequestsPerSecond: 1.0,
		MaxRetries:        5,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		ListenAddr:        ":8080",
		RefreshEvery:      6 * time.Hour,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytmovers.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytmovers.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytmovers", "ytmovers.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.SnapshotFile == "" {
		return fmt.Errorf("snapshot_file must not be empty")
	}
	if c.MaxPerChannel <= 0 {
		return fmt.Errorf("max_per_channel must be positive")
	}
	if c.MaxPerKeyword <= 0 {
		return fmt.Errorf("max_per_keyword must be positive")
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	if c.RefreshEvery <= 0 {
		return fmt.Errorf("refresh_every must be positive")
	}
	return nil
}

// RetryConfig builds the retry configuration used by the provider.
func (c *Config) RetryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = c.MaxRetries
	cfg.InitialBackoff = c.InitialBackoff
	cfg.MaxBackoff = c.MaxBackoff
	cfg.Multiplier = c.BackoffMultiplier
	return cfg
}
