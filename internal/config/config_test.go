package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 4241 {
		t.Errorf("expected default port 4241, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
	if cfg.Storage.Type != "badger" {
		t.Errorf("expected default storage type badger, got %s", cfg.Storage.Type)
	}
	if cfg.Storage.Badger.Path != "./data/stock-analyser" {
		t.Errorf("expected default badger path ./data/stock-analyser, got %s", cfg.Storage.Badger.Path)
	}
	if cfg.Brokerage.Path != "/api/holdings" {
		t.Errorf("expected default brokerage path /api/holdings, got %s", cfg.Brokerage.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("default config should be valid, got %v", issues)
	}
}

func TestDurationGetters(t *testing.T) {
	cfg := NewDefaultConfig()

	if got := cfg.Annotations.GetNotesDebounce(); got != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v", got)
	}
	if got := cfg.Analysis.GetPlaceholderDelay(); got != 1500*time.Millisecond {
		t.Errorf("expected 1.5s placeholder delay, got %v", got)
	}
	if got := cfg.Brokerage.GetTimeout(); got != 15*time.Second {
		t.Errorf("expected 15s brokerage timeout, got %v", got)
	}

	cfg.Annotations.NotesDebounce = "not-a-duration"
	if got := cfg.Annotations.GetNotesDebounce(); got != 500*time.Millisecond {
		t.Errorf("invalid duration should fall back to 500ms, got %v", got)
	}
	cfg.Analysis.CacheTTL = "5m"
	if got := cfg.Analysis.GetCacheTTL(); got != 5*time.Minute {
		t.Errorf("expected 5m cache ttl, got %v", got)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 4241 {
		t.Errorf("expected default port 4241, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
[server]
port = 9090
host = "0.0.0.0"

[storage]
type = "memory"

[brokerage]
url = "http://broker:8080"
timeout = "3s"

[annotations]
notes_debounce = "250ms"

[analysis]
gemini_api_key = "file-key"

[logging]
level = "debug"
outputs = ["console"]
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("expected storage type memory, got %s", cfg.Storage.Type)
	}
	if cfg.Brokerage.URL != "http://broker:8080" {
		t.Errorf("expected brokerage url http://broker:8080, got %s", cfg.Brokerage.URL)
	}
	if cfg.Brokerage.Path != "/api/holdings" {
		t.Errorf("brokerage path should keep its default, got %s", cfg.Brokerage.Path)
	}
	if cfg.Brokerage.GetTimeout() != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.Brokerage.GetTimeout())
	}
	if cfg.Annotations.GetNotesDebounce() != 250*time.Millisecond {
		t.Errorf("expected 250ms debounce, got %v", cfg.Annotations.GetNotesDebounce())
	}
	if cfg.Analysis.GeminiAPIKey != "file-key" {
		t.Errorf("expected gemini key file-key, got %s", cfg.Analysis.GeminiAPIKey)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if len(cfg.Logging.Outputs) != 1 || cfg.Logging.Outputs[0] != "console" {
		t.Errorf("expected outputs [console], got %v", cfg.Logging.Outputs)
	}
}

func TestLoadFromFiles_MultipleFiles(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	if err := os.WriteFile(base, []byte("[server]\nport = 3000\nhost = \"base-host\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	override := filepath.Join(dir, "override.toml")
	if err := os.WriteFile(override, []byte("[server]\nport = 4000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("expected port 4000 from override, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "base-host" {
		t.Errorf("expected host base-host from base file, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/path.toml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "invalid.toml")

	if err := os.WriteFile(tomlPath, []byte("this is not valid {{toml"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromFiles(tomlPath)
	if err == nil {
		t.Error("expected error for invalid TOML, got nil")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("ANALYSER_SERVER_PORT", "9999")
	t.Setenv("ANALYSER_SERVER_HOST", "env-host")
	t.Setenv("ANALYSER_STORAGE_TYPE", "memory")
	t.Setenv("ANALYSER_BADGER_PATH", "/env/path")
	t.Setenv("ANALYSER_BROKERAGE_URL", "http://env-broker")
	t.Setenv("ANALYSER_GEMINI_API_KEY", "env-gemini")
	t.Setenv("ANALYSER_LOG_LEVEL", "error")

	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9999 {
		t.Errorf("expected env port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "env-host" {
		t.Errorf("expected env host env-host, got %s", cfg.Server.Host)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("expected env storage type memory, got %s", cfg.Storage.Type)
	}
	if cfg.Storage.Badger.Path != "/env/path" {
		t.Errorf("expected env badger path /env/path, got %s", cfg.Storage.Badger.Path)
	}
	if cfg.Brokerage.URL != "http://env-broker" {
		t.Errorf("expected env brokerage url, got %s", cfg.Brokerage.URL)
	}
	if cfg.Analysis.GeminiAPIKey != "env-gemini" {
		t.Errorf("expected env gemini key, got %s", cfg.Analysis.GeminiAPIKey)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env log level error, got %s", cfg.Logging.Level)
	}
}

func TestApplyEnvOverrides_InvalidPort(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("ANALYSER_SERVER_PORT", "not-a-number")

	applyEnvOverrides(cfg)

	if cfg.Server.Port != 4241 {
		t.Errorf("expected default port 4241 for invalid env, got %d", cfg.Server.Port)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 7777, "flag-host")

	if cfg.Server.Port != 7777 {
		t.Errorf("expected flag port 7777, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "flag-host" {
		t.Errorf("expected flag host flag-host, got %s", cfg.Server.Host)
	}
}

func TestApplyFlagOverrides_ZeroPortNoOverride(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 0, "")

	if cfg.Server.Port != 4241 {
		t.Errorf("expected default port 4241, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"unknown storage", func(c *Config) { c.Storage.Type = "redis" }, "storage.type"},
		{"badger without path", func(c *Config) { c.Storage.Badger.Path = " " }, "storage.badger.path"},
		{"relative brokerage path", func(c *Config) { c.Brokerage.Path = "api/holdings" }, "brokerage.path"},
		{"negative limits", func(c *Config) { c.Limits.Burst = -1 }, "limits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			issues := cfg.Validate()
			if len(issues) != 1 {
				t.Fatalf("expected 1 issue, got %v", issues)
			}
			if !strings.Contains(issues[0], tt.want) {
				t.Errorf("issue %q should mention %q", issues[0], tt.want)
			}
		})
	}
}

func TestValidate_MemoryStorageNeedsNoPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Type = "memory"
	cfg.Storage.Badger.Path = ""
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestLoadFromFiles_ExampleConfig(t *testing.T) {
	cfg, err := LoadFromFiles(filepath.Join("..", "..", "config", "stock-analyser.toml"))
	if err != nil {
		t.Fatalf("failed to load example config: %v", err)
	}
	if issues := cfg.Validate(); len(issues) > 0 {
		t.Errorf("expected example config to validate, got %v", issues)
	}
	if cfg.Analysis.GetCacheTTL() != time.Hour {
		t.Errorf("expected 1h cache ttl, got %v", cfg.Analysis.GetCacheTTL())
	}
}
