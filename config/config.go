// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// HTTP settings
	ListenAddr        string   `json:"listen_addr"`
	AllowedOrigins    []string `json:"allowed_origins"`
	RequestsPerSecond float64  `json:"requests_per_second"`
	Burst             int      `json:"burst"`

	// Session settings
	SessionTTL time.Duration `json:"session_ttl"`

	// Prompt settings
	ExcerptSize int `json:"excerpt_size"`
	TopOutliers int `json:"top_outliers"`

	// Platform settings
	SnapshotCap  int     `json:"snapshot_cap"`
	QuotaReserve int     `json:"quota_reserve"`
	PlatformRPS  float64 `json:"platform_rps"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":8080",
		AllowedOrigins:    nil,
		RequestsPerSecond: 5,
		Burst:             10,
		SessionTTL:        2 * time.Hour,
		ExcerptSize:       15,
		TopOutliers:       5,
		SnapshotCap:       50,
		QuotaReserve:      200,
		PlatformRPS:       4,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Config file is optional
	if err := cfg.loadFromFile(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from nichescope.json in the current
// directory or the user's config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"nichescope.json",
		filepath.Join(os.Getenv("HOME"), ".config", "nichescope", "nichescope.json"),
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

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("NICHESCOPE_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("NICHESCOPE_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, p)
			}
		}
	}
	if v := os.Getenv("NICHESCOPE_REQUESTS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("NICHESCOPE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Burst = n
		}
	}
	if v := os.Getenv("NICHESCOPE_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SessionTTL = d
		}
	}
	if v := os.Getenv("NICHESCOPE_EXCERPT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ExcerptSize = n
		}
	}
	if v := os.Getenv("NICHESCOPE_TOP_OUTLIERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TopOutliers = n
		}
	}
	if v := os.Getenv("NICHESCOPE_SNAPSHOT_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SnapshotCap = n
		}
	}
	if v := os.Getenv("NICHESCOPE_QUOTA_RESERVE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.QuotaReserve = n
		}
	}
	if v := os.Getenv("NICHESCOPE_PLATFORM_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.PlatformRPS = f
		}
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be non-negative")
	}
	if c.Burst < 0 {
		return fmt.Errorf("burst must be non-negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.ExcerptSize <= 0 {
		return fmt.Errorf("excerpt_size must be positive")
	}
	if c.TopOutliers < 0 {
		return fmt.Errorf("top_outliers must be non-negative")
	}
	if c.SnapshotCap <= 0 || c.SnapshotCap > 50 {
		return fmt.Errorf("snapshot_cap must be between 1 and 50")
	}
	if c.QuotaReserve < 0 {
		return fmt.Errorf("quota_reserve must be non-negative")
	}
	if c.PlatformRPS < 0 {
		return fmt.Errorf("platform_rps must be non-negative")
	}
	return nil
}
