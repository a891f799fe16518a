package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ProgramAPIURL != DefaultProgramAPIURL {
		t.Errorf("Expected program API URL %q, got %q", DefaultProgramAPIURL, cfg.ProgramAPIURL)
	}
	if cfg.MediaLookupURL != DefaultMediaLookupURL {
		t.Errorf("Expected media lookup URL %q, got %q", DefaultMediaLookupURL, cfg.MediaLookupURL)
	}
	if cfg.APIClientVersion != DefaultAPIClientVersion {
		t.Errorf("Expected API client version %q, got %q", DefaultAPIClientVersion, cfg.APIClientVersion)
	}
	if !cfg.Subtitles {
		t.Error("Expected subtitles to be enabled by default")
	}
	if cfg.OutputDir != "." {
		t.Errorf("Expected output dir '.', got %q", cfg.OutputDir)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", cfg.UserAgent)
	}
	if cfg.Cache.Provider != "" {
		t.Errorf("Expected cache to be disabled by default, got provider %q", cfg.Cache.Provider)
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Expected metrics port 9090, got %d", cfg.Metrics.Port)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nrkdl.yaml")
	content := `
output_dir: /tmp/nrk
subtitles: false
client_timeout: 10s
cache:
  provider: memory
  size: 10
  ttl: 5m
metrics:
  enabled: true
  port: 9191
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.OutputDir != "/tmp/nrk" {
		t.Errorf("Expected output dir from file, got %q", cfg.OutputDir)
	}
	if cfg.Subtitles {
		t.Error("Expected subtitles to be disabled by file")
	}
	if cfg.ClientTimeout != "10s" {
		t.Errorf("Expected client timeout 10s, got %q", cfg.ClientTimeout)
	}
	if cfg.Cache.Provider != "memory" || cfg.Cache.Size != 10 || cfg.Cache.TTL != "5m" {
		t.Errorf("Unexpected cache config: %+v", cfg.Cache)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != 9191 {
		t.Errorf("Unexpected metrics config: %+v", cfg.Metrics)
	}
	// Untouched keys keep their defaults
	if cfg.ProgramAPIURL != DefaultProgramAPIURL {
		t.Errorf("Expected default program API URL, got %q", cfg.ProgramAPIURL)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_PROGRAM_API_URL", "http://localhost:1234/programs")
	t.Setenv("APP_CACHE_PROVIDER", "redis")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ProgramAPIURL != "http://localhost:1234/programs" {
		t.Errorf("Expected env override for program API URL, got %q", cfg.ProgramAPIURL)
	}
	if cfg.Cache.Provider != "redis" {
		t.Errorf("Expected env override for cache provider, got %q", cfg.Cache.Provider)
	}
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { SetLogLevel("info") })

	SetLogLevel("debug")
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %s", zerolog.GlobalLevel())
	}

	SetLogLevel("not-a-level")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("Expected fallback to info level, got %s", zerolog.GlobalLevel())
	}
}

func TestGetUserAgent_Default(t *testing.T) {
	previous := globalConfig
	globalConfig = nil
	t.Cleanup(func() { globalConfig = previous })

	if got := GetUserAgent(); got != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", got)
	}
}

// chdir changes the working directory for the duration of the test (stand-in for t.Chdir, which needs Go 1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	previous, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(previous); err != nil {
			t.Fatalf("Restoring working directory failed: %v", err)
		}
	})
}
