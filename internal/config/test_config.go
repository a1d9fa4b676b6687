package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Database = DatabaseConfig{
		Path:    ":memory:",
		Timeout: 1 * time.Second,
	}
	cfg.Catalog.Token = "test-token"
	cfg.Catalog.HTTPTimeout = 5 * time.Second
	cfg.Search.Debounce = 10 * time.Millisecond
	cfg.Log.Level = "off"
	return cfg
}
