package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Source != SourceYouTube {
		t.Errorf("expected default source youtube, got %q", cfg.Source)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("expected default concurrency 4, got %d", cfg.Concurrency)
	}
	if cfg.RetryBudget != 2 {
		t.Errorf("expected default retry budget 2, got %d", cfg.RetryBudget)
	}
	if cfg.StallTimeout != 60*time.Second {
		t.Errorf("expected default stall timeout 60s, got %v", cfg.StallTimeout)
	}
	if cfg.Template == "" {
		t.Error("expected a default object name template")
	}
	if !cfg.Progress {
		t.Error("expected progress enabled by default")
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
playlist: PLabc123
bucket: s3://my-videos
concurrency: 8
retry_budget: 0
stall_timeout: 90s
quality: 720p
audio_only: true
progress: false
limit: 25
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Playlist != "PLabc123" {
		t.Errorf("expected playlist PLabc123, got %q", cfg.Playlist)
	}
	if cfg.Bucket != "s3://my-videos" {
		t.Errorf("expected bucket s3://my-videos, got %q", cfg.Bucket)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", cfg.Concurrency)
	}
	if cfg.RetryBudget != 0 {
		t.Errorf("expected retry budget 0, got %d", cfg.RetryBudget)
	}
	if cfg.StallTimeout != 90*time.Second {
		t.Errorf("expected stall timeout 90s, got %v", cfg.StallTimeout)
	}
	if cfg.Quality != "720p" {
		t.Errorf("expected quality 720p, got %q", cfg.Quality)
	}
	if !cfg.AudioOnly {
		t.Error("expected audio_only true")
	}
	if cfg.Progress {
		t.Error("expected progress disabled")
	}
	if cfg.Limit != 25 {
		t.Errorf("expected limit 25, got %d", cfg.Limit)
	}
	// Absent keys keep their defaults.
	if cfg.Source != SourceYouTube {
		t.Errorf("expected default source preserved, got %q", cfg.Source)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("YTKIT_PLAYLIST", "PLenv")
	t.Setenv("YTKIT_BUCKET", "mem://env")
	t.Setenv("YTKIT_CONCURRENCY", "12")
	t.Setenv("YTKIT_RETRY_BUDGET", "5")
	t.Setenv("YTKIT_STALL_TIMEOUT", "30s")
	t.Setenv("YTKIT_PROGRESS", "false")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.Playlist != "PLenv" {
		t.Errorf("expected playlist PLenv, got %q", cfg.Playlist)
	}
	if cfg.Bucket != "mem://env" {
		t.Errorf("expected bucket mem://env, got %q", cfg.Bucket)
	}
	if cfg.Concurrency != 12 {
		t.Errorf("expected concurrency 12, got %d", cfg.Concurrency)
	}
	if cfg.RetryBudget != 5 {
		t.Errorf("expected retry budget 5, got %d", cfg.RetryBudget)
	}
	if cfg.StallTimeout != 30*time.Second {
		t.Errorf("expected stall timeout 30s, got %v", cfg.StallTimeout)
	}
	if cfg.Progress {
		t.Error("expected progress disabled")
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("YTKIT_CONCURRENCY", "lots")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for non-numeric YTKIT_CONCURRENCY")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Playlist = "PLabc123"
	valid.Bucket = "s3://my-videos"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"missing playlist", func(c *Config) { c.Playlist = "" }, true},
		{"missing bucket", func(c *Config) { c.Bucket = "" }, true},
		{"unknown source", func(c *Config) { c.Source = "vimeo" }, true},
		{"invalid concurrency", func(c *Config) { c.Concurrency = 0 }, true},
		{"negative retry budget", func(c *Config) { c.RetryBudget = -1 }, true},
		{"zero stall timeout", func(c *Config) { c.StallTimeout = 0 }, true},
		{"negative limit", func(c *Config) { c.Limit = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	base.Playlist = "PLbase"
	base.Bucket = "s3://base"

	override := Config{
		Concurrency: 16,
		Quality:     "1080p",
	}

	merged := base.Merge(override)

	if merged.Playlist != "PLbase" {
		t.Errorf("expected playlist preserved, got %q", merged.Playlist)
	}
	if merged.Bucket != "s3://base" {
		t.Errorf("expected bucket preserved, got %q", merged.Bucket)
	}
	if merged.RetryBudget != 2 {
		t.Errorf("expected retry budget preserved, got %d", merged.RetryBudget)
	}
	if merged.Concurrency != 16 {
		t.Errorf("expected concurrency overridden to 16, got %d", merged.Concurrency)
	}
	if merged.Quality != "1080p" {
		t.Errorf("expected quality overridden, got %q", merged.Quality)
	}
}

func TestMergeLeavesProgressAlone(t *testing.T) {
	base := Default()
	base.Progress = false

	merged := base.Merge(Config{Concurrency: 8})
	if merged.Progress {
		t.Error("Merge must not touch Progress; callers toggle it directly")
	}
}

func TestLoadYAMLFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
