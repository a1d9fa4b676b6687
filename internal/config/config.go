package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pders01/flix/internal/validation"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Search   SearchConfig   `mapstructure:"search"`
	Browse   BrowseConfig   `mapstructure:"browse"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

// CatalogConfig points at the remote movie catalog. Token is an opaque
// bearer credential and has no default.
type CatalogConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	ImageBaseURL    string        `mapstructure:"image_base_url"`
	Token           string        `mapstructure:"token"`
	Language        string        `mapstructure:"language"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	DetailCacheSize int           `mapstructure:"detail_cache_size"`
}

type SearchConfig struct {
	Debounce   time.Duration `mapstructure:"debounce"`
	MaxResults int           `mapstructure:"max_results"`
	MaxRecent  int           `mapstructure:"max_recent"`
}

type BrowseConfig struct {
	DefaultCategory   string        `mapstructure:"default_category"`
	HeroRotation      time.Duration `mapstructure:"hero_rotation"`
	PrefetchThreshold int           `mapstructure:"prefetch_threshold"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type UIConfig struct {
	Colors UIColors     `mapstructure:"colors"`
	Detail DetailConfig `mapstructure:"detail"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type DetailConfig struct {
	MaxOverviewLength int `mapstructure:"max_overview_length"`
	CastLimit         int `mapstructure:"cast_limit"`
	SimilarLimit      int `mapstructure:"similar_limit"`
	WordWrapMaxWidth  int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth  int `mapstructure:"word_wrap_min_width"`
}

type MediaConfig struct {
	Darwin        MediaPlayers `mapstructure:"darwin"`
	Linux         MediaPlayers `mapstructure:"linux"`
	Windows       MediaPlayers `mapstructure:"windows"`
	DefaultOpener string       `mapstructure:"default_opener"`
}

type MediaPlayers struct {
	Video []string `mapstructure:"video"`
	Image []string `mapstructure:"image"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Search    string `mapstructure:"search"`
	Watchlist string `mapstructure:"watchlist"`
	Continue  string `mapstructure:"continue"`
	Genres    string `mapstructure:"genres"`
	Toggle    string `mapstructure:"toggle"`
	Play      string `mapstructure:"play"`
	Poster    string `mapstructure:"poster"`
	Delete    string `mapstructure:"delete"`
	SignOut   string `mapstructure:"sign_out"`
	Back      string `mapstructure:"back"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".flix.db")
	searchIndexPath := filepath.Join(homeDir, ".flix", "library.bleve")

	return &Config{
		Database: DatabaseConfig{
			Path:        dbPath,
			Timeout:     1 * time.Second,
			SearchIndex: searchIndexPath,
		},
		Catalog: CatalogConfig{
			BaseURL:         "https://api.themoviedb.org/3",
			ImageBaseURL:    "https://image.tmdb.org/t/p",
			Language:        "en-US",
			HTTPTimeout:     15 * time.Second,
			DetailCacheSize: 64,
		},
		Search: SearchConfig{
			Debounce:   500 * time.Millisecond,
			MaxResults: 20,
			MaxRecent:  5,
		},
		Browse: BrowseConfig{
			DefaultCategory:   "now_playing",
			HeroRotation:      15 * time.Second,
			PrefetchThreshold: 3,
		},
		Log: LogConfig{
			Level:      "off",
			Path:       filepath.Join(homeDir, ".flix", "flix.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#E50914",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#141414",
				Surface:    "#221F1F",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#FF4545",
				Success:    "#46D369",
			},
			Detail: DetailConfig{
				MaxOverviewLength: 200,
				CastLimit:         10,
				SimilarLimit:      6,
				WordWrapMaxWidth:  120,
				WordWrapMinWidth:  40,
			},
		},
		Media: MediaConfig{
			Darwin: MediaPlayers{
				Video: []string{"iina", "mpv", "vlc"},
				Image: []string{"open"},
			},
			Linux: MediaPlayers{
				Video: []string{"mpv", "vlc"},
				Image: []string{"feh", "eog", "xdg-open"},
			},
			Windows: MediaPlayers{
				Video: []string{"mpv", "vlc"},
				Image: []string{"start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:      "q",
				Search:    "s",
				Watchlist: "w",
				Continue:  "k",
				Genres:    "g",
				Toggle:    "a",
				Play:      "p",
				Poster:    "o",
				Delete:    "x",
				SignOut:   "l",
				Back:      "esc",
			},
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// setDefaults registers every leaf key so env overrides reach Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)
	v.SetDefault("database.search_index", cfg.Database.SearchIndex)

	v.SetDefault("catalog.base_url", cfg.Catalog.BaseURL)
	v.SetDefault("catalog.image_base_url", cfg.Catalog.ImageBaseURL)
	v.SetDefault("catalog.token", cfg.Catalog.Token)
	v.SetDefault("catalog.language", cfg.Catalog.Language)
	v.SetDefault("catalog.http_timeout", cfg.Catalog.HTTPTimeout)
	v.SetDefault("catalog.detail_cache_size", cfg.Catalog.DetailCacheSize)

	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.max_results", cfg.Search.MaxResults)
	v.SetDefault("search.max_recent", cfg.Search.MaxRecent)

	v.SetDefault("browse.default_category", cfg.Browse.DefaultCategory)
	v.SetDefault("browse.hero_rotation", cfg.Browse.HeroRotation)
	v.SetDefault("browse.prefetch_threshold", cfg.Browse.PrefetchThreshold)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age_days", cfg.Log.MaxAgeDays)

	colors := cfg.UI.Colors
	v.SetDefault("ui.colors.primary", colors.Primary)
	v.SetDefault("ui.colors.secondary", colors.Secondary)
	v.SetDefault("ui.colors.accent", colors.Accent)
	v.SetDefault("ui.colors.background", colors.Background)
	v.SetDefault("ui.colors.surface", colors.Surface)
	v.SetDefault("ui.colors.text", colors.Text)
	v.SetDefault("ui.colors.muted", colors.Muted)
	v.SetDefault("ui.colors.error", colors.Error)
	v.SetDefault("ui.colors.success", colors.Success)
	v.SetDefault("ui.detail.max_overview_length", cfg.UI.Detail.MaxOverviewLength)
	v.SetDefault("ui.detail.cast_limit", cfg.UI.Detail.CastLimit)
	v.SetDefault("ui.detail.similar_limit", cfg.UI.Detail.SimilarLimit)
	v.SetDefault("ui.detail.word_wrap_max_width", cfg.UI.Detail.WordWrapMaxWidth)
	v.SetDefault("ui.detail.word_wrap_min_width", cfg.UI.Detail.WordWrapMinWidth)

	v.SetDefault("media", cfg.Media)
	v.SetDefault("keys", cfg.Keys)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "flix")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FLIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("catalog.token", "FLIX_CATALOG_TOKEN", "TMDB_TOKEN"); err != nil {
		return nil, fmt.Errorf("binding token env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// Validate rejects settings the rest of the program cannot run with.
func (c *Config) Validate() error {
	endpoints := validation.NewEndpointValidator()
	if _, err := endpoints.ValidateAndNormalize(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}
	if _, err := endpoints.ValidateAndNormalize(c.Catalog.ImageBaseURL); err != nil {
		return fmt.Errorf("catalog.image_base_url: %w", err)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive")
	}
	if c.Search.MaxRecent <= 0 {
		return fmt.Errorf("search.max_recent must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must be set")
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
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	dbCfg := map[string]any{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	// The token never goes into generated files
	catalogCfg := map[string]any{
		"base_url":          config.Catalog.BaseURL,
		"image_base_url":    config.Catalog.ImageBaseURL,
		"language":          config.Catalog.Language,
		"http_timeout":      config.Catalog.HTTPTimeout.String(),
		"detail_cache_size": config.Catalog.DetailCacheSize,
	}

	searchCfg := map[string]any{
		"debounce":    config.Search.Debounce.String(),
		"max_results": config.Search.MaxResults,
		"max_recent":  config.Search.MaxRecent,
	}

	browseCfg := map[string]any{
		"default_category":   config.Browse.DefaultCategory,
		"hero_rotation":      config.Browse.HeroRotation.String(),
		"prefetch_threshold": config.Browse.PrefetchThreshold,
	}

	logCfg := map[string]any{
		"level":        config.Log.Level,
		"path":         config.Log.Path,
		"max_size_mb":  config.Log.MaxSizeMB,
		"max_backups":  config.Log.MaxBackups,
		"max_age_days": config.Log.MaxAgeDays,
	}

	v.Set("database", dbCfg)
	v.Set("catalog", catalogCfg)
	v.Set("search", searchCfg)
	v.Set("browse", browseCfg)
	v.Set("log", logCfg)
	v.Set("ui", config.UI)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
