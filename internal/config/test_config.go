package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://127.0.0.1:8000",
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "brief-test/1.0",
			PageSize:    10,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     1 * time.Minute,
			Timeout: 1 * time.Second,
		},
		UI:      defaultConfig().UI,
		Browser: BrowserConfig{},
		Keys:    defaultConfig().Keys,
		Log:     LogConfig{Level: "off"},
	}
}
