package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Browser BrowserConfig `mapstructure:"browser"`
	Keys    KeyConfig     `mapstructure:"keys"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	PageSize    int           `mapstructure:"page_size"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type UIConfig struct {
	Theme         string      `mapstructure:"theme"`
	DefaultSearch string      `mapstructure:"default_search"`
	MaxTags       int         `mapstructure:"max_tags"`
	SkeletonCards int         `mapstructure:"skeleton_cards"`
	SummaryLength int         `mapstructure:"summary_length"`
	CardWidth     int         `mapstructure:"card_width"`
	Colors        ThemeColors `mapstructure:"colors"`
}

type ThemeColors struct {
	Light UIColors `mapstructure:"light"`
	Dark  UIColors `mapstructure:"dark"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Surface   string `mapstructure:"surface"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Border    string `mapstructure:"border"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type BrowserConfig struct {
	// Opener overrides the platform default command used to open links.
	Opener string `mapstructure:"opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit    string `mapstructure:"quit"`
	Search  string `mapstructure:"search"`
	Refresh string `mapstructure:"refresh"`
	Theme   string `mapstructure:"theme"`
	Open    string `mapstructure:"open"`
	Copy    string `mapstructure:"copy"`
	Filter  string `mapstructure:"filter"`
	Back    string `mapstructure:"back"`
	Help    string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://127.0.0.1:8000",
			HTTPTimeout: 60 * time.Second,
			UserAgent:   "brief/1.0 (https://github.com/pders01/brief)",
			PageSize:    10,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(xdg.CacheHome, "brief", "cache.db"),
			TTL:     5 * time.Minute,
			Timeout: 1 * time.Second,
		},
		UI: UIConfig{
			Theme:         "light",
			DefaultSearch: "latest tech news",
			MaxTags:       3,
			SkeletonCards: 5,
			SummaryLength: 220,
			CardWidth:     44,
			Colors: ThemeColors{
				Light: UIColors{
					Primary:   "#D9480F",
					Secondary: "#0B7285",
					Accent:    "#5A56E0",
					Surface:   "#F1F3F5",
					Text:      "#212529",
					Muted:     "#868E96",
					Border:    "#CED4DA",
					Error:     "#C92A2A",
					Success:   "#2B8A3E",
				},
				Dark: UIColors{
					Primary:   "#FF6B6B",
					Secondary: "#4ECDC4",
					Accent:    "#95E1D3",
					Surface:   "#16213E",
					Text:      "#EAEAEA",
					Muted:     "#94A3B8",
					Border:    "#383838",
					Error:     "#F87171",
					Success:   "#4ADE80",
				},
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:    "q",
				Search:  "s",
				Refresh: "r",
				Theme:   "t",
				Open:    "o",
				Copy:    "y",
				Filter:  "/",
				Back:    "esc",
				Help:    "?",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(xdg.StateHome, "brief", "brief.log"),
		},
	}
}

// Dir returns the directory searched for config.toml when no explicit path is given.
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "brief")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BRIEF")
	v.AutomaticEnv()
	// Nested keys need explicit bindings for AutomaticEnv to see them.
	_ = v.BindEnv("api.base_url", "BRIEF_API_BASE_URL")
	_ = v.BindEnv("api.http_timeout", "BRIEF_API_HTTP_TIMEOUT")
	_ = v.BindEnv("cache.enabled", "BRIEF_CACHE_ENABLED")
	_ = v.BindEnv("ui.theme", "BRIEF_UI_THEME")
	_ = v.BindEnv("ui.default_search", "BRIEF_UI_DEFAULT_SEARCH")
	_ = v.BindEnv("log.level", "BRIEF_LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Unmarshal over the defaults so keys missing from a partial file keep their default.
	config := defaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	expandPaths(config)

	return config, nil
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("api.page_size must be positive, got %d", c.API.PageSize)
	}
	if c.API.HTTPTimeout <= 0 {
		return fmt.Errorf("api.http_timeout must be positive")
	}
	switch c.UI.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("ui.theme must be \"light\" or \"dark\", got %q", c.UI.Theme)
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Cache.Path = expandPath(cfg.Cache.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings for TOML readability
	v.Set("api", map[string]interface{}{
		"base_url":     config.API.BaseURL,
		"http_timeout": config.API.HTTPTimeout.String(),
		"user_agent":   config.API.UserAgent,
		"page_size":    config.API.PageSize,
	})
	v.Set("cache", map[string]interface{}{
		"enabled": config.Cache.Enabled,
		"path":    config.Cache.Path,
		"ttl":     config.Cache.TTL.String(),
		"timeout": config.Cache.Timeout.String(),
	})
	v.Set("ui", map[string]interface{}{
		"theme":          config.UI.Theme,
		"default_search": config.UI.DefaultSearch,
		"max_tags":       config.UI.MaxTags,
		"skeleton_cards": config.UI.SkeletonCards,
		"summary_length": config.UI.SummaryLength,
		"card_width":     config.UI.CardWidth,
		"colors": map[string]interface{}{
			"light": colorsMap(config.UI.Colors.Light),
			"dark":  colorsMap(config.UI.Colors.Dark),
		},
	})
	v.Set("browser", map[string]interface{}{
		"opener": config.Browser.Opener,
	})
	v.Set("keys", map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":    config.Keys.Bindings.Quit,
			"search":  config.Keys.Bindings.Search,
			"refresh": config.Keys.Bindings.Refresh,
			"theme":   config.Keys.Bindings.Theme,
			"open":    config.Keys.Bindings.Open,
			"copy":    config.Keys.Bindings.Copy,
			"filter":  config.Keys.Bindings.Filter,
			"back":    config.Keys.Bindings.Back,
			"help":    config.Keys.Bindings.Help,
		},
	})
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func colorsMap(c UIColors) map[string]interface{} {
	return map[string]interface{}{
		"primary":   c.Primary,
		"secondary": c.Secondary,
		"accent":    c.Accent,
		"surface":   c.Surface,
		"text":      c.Text,
		"muted":     c.Muted,
		"border":    c.Border,
		"error":     c.Error,
		"success":   c.Success,
	}
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
