package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Brokerage   BrokerageConfig   `toml:"brokerage"`
	Annotations AnnotationsConfig `toml:"annotations"`
	Analysis    AnalysisConfig    `toml:"analysis"`
	Limits      LimitsConfig      `toml:"limits"`
	Logging     LoggingConfig     `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig contains storage layer settings.
// Type is "badger" (default) or "memory".
type StorageConfig struct {
	Type   string       `toml:"type"`
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// BrokerageConfig points at the holdings endpoint used by "Fetch from IndMoney".
type BrokerageConfig struct {
	URL     string `toml:"url"`
	Path    string `toml:"path"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses the timeout, falling back to 15s.
func (c *BrokerageConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 15*time.Second)
}

// AnnotationsConfig tunes the notes write coalescing.
type AnnotationsConfig struct {
	NotesDebounce string `toml:"notes_debounce"`
}

// GetNotesDebounce parses the debounce window, falling back to 500ms.
func (c *AnnotationsConfig) GetNotesDebounce() time.Duration {
	return parseDuration(c.NotesDebounce, 500*time.Millisecond)
}

// AnalysisConfig selects the analysis backend. An empty GeminiAPIKey keeps
// the placeholder analyzer.
type AnalysisConfig struct {
	GeminiAPIKey     string `toml:"gemini_api_key"`
	Model            string `toml:"model"`
	CacheTTL         string `toml:"cache_ttl"`
	CacheSize        int    `toml:"cache_size"`
	PlaceholderDelay string `toml:"placeholder_delay"`
}

// GetCacheTTL parses the analysis cache TTL, falling back to 1h.
func (c *AnalysisConfig) GetCacheTTL() time.Duration {
	return parseDuration(c.CacheTTL, time.Hour)
}

// GetPlaceholderDelay parses the simulated analysis latency, falling back to 1.5s.
func (c *AnalysisConfig) GetPlaceholderDelay() time.Duration {
	return parseDuration(c.PlaceholderDelay, 1500*time.Millisecond)
}

// LimitsConfig rate-limits mutating API requests.
type LimitsConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// A missing .env is normal; existing process env always wins over it.
	_ = godotenv.Load()

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies ANALYSER_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("ANALYSER_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ANALYSER_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if storageType := os.Getenv("ANALYSER_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}
	if badgerPath := os.Getenv("ANALYSER_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if brokerURL := os.Getenv("ANALYSER_BROKERAGE_URL"); brokerURL != "" {
		config.Brokerage.URL = brokerURL
	}
	if key := os.Getenv("ANALYSER_GEMINI_API_KEY"); key != "" {
		config.Analysis.GeminiAPIKey = key
	}
	if level := os.Getenv("ANALYSER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("ANALYSER_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate returns a human-readable issue for every invalid setting.
func (c *Config) Validate() []string {
	var issues []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	switch strings.ToLower(c.Storage.Type) {
	case "badger":
		if strings.TrimSpace(c.Storage.Badger.Path) == "" {
			issues = append(issues, "storage.badger.path is required when storage.type is badger")
		}
	case "memory":
	default:
		issues = append(issues, fmt.Sprintf("storage.type %q must be badger or memory", c.Storage.Type))
	}
	if c.Brokerage.Path != "" && !strings.HasPrefix(c.Brokerage.Path, "/") {
		issues = append(issues, "brokerage.path must start with /")
	}
	if c.Limits.RequestsPerSecond < 0 || c.Limits.Burst < 0 {
		issues = append(issues, "limits must not be negative")
	}
	return issues
}

// BaseURL returns the portal's own URL.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}
