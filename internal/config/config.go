package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maggiben/ytkit/internal/sink"
)

// Known listing sources.
const (
	SourceYouTube = "youtube"
	SourceIndex   = "index"
)

// Config defines configuration for the ytkit CLI.
type Config struct {
	Playlist     string        `yaml:"playlist"`
	Source       string        `yaml:"source"`
	Bucket       string        `yaml:"bucket"`
	Template     string        `yaml:"template"`
	Concurrency  int           `yaml:"concurrency"`
	RetryBudget  int           `yaml:"retry_budget"`
	StallTimeout time.Duration `yaml:"stall_timeout"`
	Quality      string        `yaml:"quality"`
	Format       string        `yaml:"format"`
	AudioOnly    bool          `yaml:"audio_only"`
	Progress     bool          `yaml:"progress"`
	Verbose      bool          `yaml:"verbose"`
	Limit        int           `yaml:"limit"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Source:       SourceYouTube,
		Template:     sink.DefaultTemplate,
		Concurrency:  4,
		RetryBudget:  2,
		StallTimeout: 60 * time.Second,
		Progress:     true,
	}
}

// yamlConfig is used for YAML unmarshaling with string durations and
// pointer booleans, so absent keys keep their defaults.
type yamlConfig struct {
	Playlist     string `yaml:"playlist"`
	Source       string `yaml:"source"`
	Bucket       string `yaml:"bucket"`
	Template     string `yaml:"template"`
	Concurrency  int    `yaml:"concurrency"`
	RetryBudget  *int   `yaml:"retry_budget"`
	StallTimeout string `yaml:"stall_timeout"`
	Quality      string `yaml:"quality"`
	Format       string `yaml:"format"`
	AudioOnly    *bool  `yaml:"audio_only"`
	Progress     *bool  `yaml:"progress"`
	Verbose      *bool  `yaml:"verbose"`
	Limit        int    `yaml:"limit"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Playlist != "" {
		cfg.Playlist = yc.Playlist
	}
	if yc.Source != "" {
		cfg.Source = yc.Source
	}
	if yc.Bucket != "" {
		cfg.Bucket = yc.Bucket
	}
	if yc.Template != "" {
		cfg.Template = yc.Template
	}
	if yc.Concurrency != 0 {
		cfg.Concurrency = yc.Concurrency
	}
	if yc.RetryBudget != nil {
		cfg.RetryBudget = *yc.RetryBudget
	}
	if yc.StallTimeout != "" {
		d, err := time.ParseDuration(yc.StallTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse stall_timeout: %w", err)
		}
		cfg.StallTimeout = d
	}
	if yc.Quality != "" {
		cfg.Quality = yc.Quality
	}
	if yc.Format != "" {
		cfg.Format = yc.Format
	}
	if yc.AudioOnly != nil {
		cfg.AudioOnly = *yc.AudioOnly
	}
	if yc.Progress != nil {
		cfg.Progress = *yc.Progress
	}
	if yc.Verbose != nil {
		cfg.Verbose = *yc.Verbose
	}
	if yc.Limit != 0 {
		cfg.Limit = yc.Limit
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the YTKIT_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("YTKIT_PLAYLIST"); v != "" {
		c.Playlist = v
	}
	if v := os.Getenv("YTKIT_SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv("YTKIT_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("YTKIT_TEMPLATE"); v != "" {
		c.Template = v
	}
	if v := os.Getenv("YTKIT_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse YTKIT_CONCURRENCY: %w", err)
		}
		c.Concurrency = n
	}
	if v := os.Getenv("YTKIT_RETRY_BUDGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse YTKIT_RETRY_BUDGET: %w", err)
		}
		c.RetryBudget = n
	}
	if v := os.Getenv("YTKIT_STALL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse YTKIT_STALL_TIMEOUT: %w", err)
		}
		c.StallTimeout = d
	}
	if v := os.Getenv("YTKIT_QUALITY"); v != "" {
		c.Quality = v
	}
	if v := os.Getenv("YTKIT_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("YTKIT_AUDIO_ONLY"); v != "" {
		c.AudioOnly = v == "true" || v == "1"
	}
	if v := os.Getenv("YTKIT_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("YTKIT_VERBOSE"); v != "" {
		c.Verbose = v == "true" || v == "1"
	}
	if v := os.Getenv("YTKIT_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse YTKIT_LIMIT: %w", err)
		}
		c.Limit = n
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Playlist == "" {
		return errors.New("config: playlist is required")
	}
	if c.Bucket == "" {
		return errors.New("config: bucket is required")
	}
	if c.Source != SourceYouTube && c.Source != SourceIndex {
		return fmt.Errorf("config: unknown source %q", c.Source)
	}
	if c.Concurrency <= 0 {
		return errors.New("config: concurrency must be positive")
	}
	if c.RetryBudget < 0 {
		return errors.New("config: retry_budget must not be negative")
	}
	if c.StallTimeout <= 0 {
		return errors.New("config: stall_timeout must be positive")
	}
	if c.Limit < 0 {
		return errors.New("config: limit must not be negative")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored. Progress is excluded: it defaults
// to true, so its only meaningful override is false, which a zero-valued
// bool cannot express — callers toggle it on the Config directly.
func (c Config) Merge(override Config) Config {
	if override.Playlist != "" {
		c.Playlist = override.Playlist
	}
	if override.Source != "" {
		c.Source = override.Source
	}
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if override.Template != "" {
		c.Template = override.Template
	}
	if override.Concurrency != 0 {
		c.Concurrency = override.Concurrency
	}
	if override.RetryBudget != 0 {
		c.RetryBudget = override.RetryBudget
	}
	if override.StallTimeout != 0 {
		c.StallTimeout = override.StallTimeout
	}
	if override.Quality != "" {
		c.Quality = override.Quality
	}
	if override.Format != "" {
		c.Format = override.Format
	}
	if override.AudioOnly {
		c.AudioOnly = override.AudioOnly
	}
	if override.Verbose {
		c.Verbose = override.Verbose
	}
	if override.Limit != 0 {
		c.Limit = override.Limit
	}
	return c
}
