package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4241,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path: "./data/stock-analyser",
			},
		},
		Brokerage: BrokerageConfig{
			URL:     "http://localhost:4242",
			Path:    "/api/holdings",
			Timeout: "15s",
		},
		Annotations: AnnotationsConfig{
			NotesDebounce: "500ms",
		},
		Analysis: AnalysisConfig{
			Model:            "gemini-2.5-flash",
			CacheTTL:         "1h",
			CacheSize:        100,
			PlaceholderDelay: "1500ms",
		},
		Limits: LimitsConfig{
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console", "file"},
		},
	}
}
