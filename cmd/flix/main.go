package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/flix/internal/auth"
	"github.com/pders01/flix/internal/config"
	"github.com/pders01/flix/internal/debuglog"
	"github.com/pders01/flix/internal/format"
	"github.com/pders01/flix/internal/library"
	"github.com/pders01/flix/internal/media"
	"github.com/pders01/flix/internal/plugins"
	"github.com/pders01/flix/internal/plugins/sites"
	"github.com/pders01/flix/internal/search"
	"github.com/pders01/flix/internal/storage"
	"github.com/pders01/flix/internal/tmdb"
	"github.com/pders01/flix/internal/tui"
	"github.com/pders01/flix/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	dbPath     string
	quiet      bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "flix",
	Short:         "Browse movies and trailers in your terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTUI(cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("flix %s\n", Version)
		fmt.Println("Movies in your terminal")
		fmt.Println("github.com/pders01/flix")
	},
}

var configGenCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write the default config to ~/.config/flix/config.toml",
	Run: func(_ *cobra.Command, _ []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "flix", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			log.Fatalf("Failed to generate config: %v", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Print the saved watchlist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		items := env.watchlist.Items()
		if len(items) == 0 {
			fmt.Fprintln(out, "Your watchlist is empty")
			return nil
		}
		for _, item := range items {
			fmt.Fprintln(out, listLine(item, false))
		}
		return nil
	},
}

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Print the continue-watching list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		items := env.continues.Items()
		if len(items) == 0 {
			fmt.Fprintln(out, "Nothing to continue")
			return nil
		}
		for _, item := range items {
			fmt.Fprintln(out, listLine(item, true))
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog without starting the interface",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.openIndex(); err != nil {
			return err
		}

		query := strings.Join(args, " ")
		out := cmd.OutOrStdout()
		svc := env.searchService()

		for _, hit := range svc.Local(query, 5) {
			fmt.Fprintf(out, "[%s] %s\n", hit.Source, hit.Item.Title)
		}

		movies, err := svc.Search(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("searching %q: %w", query, err)
		}
		if len(movies) == 0 {
			fmt.Fprintln(out, "No results")
			return nil
		}
		for _, m := range movies {
			fmt.Fprintln(out, listLine(m.ListItem(), false))
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to configuration file")
	flags.StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	flags.BoolVar(&quiet, "quiet", false, "Skip startup banner")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off")

	rootCmd.AddCommand(versionCmd, configGenCmd, watchlistCmd, continueCmd, searchCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// listLine renders one saved entry for the plain-text commands.
func listLine(item storage.ListItem, withProgress bool) string {
	line := item.Title
	if item.ReleaseDate != "" {
		line = fmt.Sprintf("%s (%s)", line, format.Year(item.ReleaseDate))
	}
	if item.VoteAverage > 0 {
		line += " ★ " + format.Vote(item.VoteAverage)
	}
	if withProgress {
		line = fmt.Sprintf("%s  %s %d%%", line, format.Progress(float64(item.Progress), 10), item.Progress)
	}
	return line
}

// environment holds what every command shares: config, the store and the
// lists loaded from it.
type environment struct {
	cfg       *config.Config
	paths     *validation.PathHandler
	store     *storage.Store
	watchlist *library.Watchlist
	continues *library.ContinueWatching
	recent    *library.RecentSearches
	index     search.LibraryIndex
	catalog   *tmdb.Client
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openEnvironment() (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	paths := validation.NewPathHandler()

	logPath := cfg.Log.Path
	if logPath == "" {
		logPath = debuglog.DefaultPath()
	}
	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if level != debuglog.LevelOff {
		if logPath, err = paths.FilePath(logPath); err != nil {
			return nil, fmt.Errorf("log path: %w", err)
		}
	}
	if err := debuglog.SetupWithRotation(level, debuglog.Rotation{
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}, logPath); err != nil {
		return nil, err
	}

	storePath, err := paths.FilePath(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}
	store, err := storage.NewStoreWithOptions(storePath, storage.Options{Timeout: cfg.Database.Timeout})
	if err != nil {
		return nil, err
	}

	env := &environment{
		cfg:       cfg,
		paths:     paths,
		store:     store,
		watchlist: library.NewWatchlist(store),
		continues: library.NewContinueWatching(store),
		recent:    library.NewRecentSearches(store, library.WithCapacity(cfg.Search.MaxRecent)),
	}
	for name, load := range map[string]func() error{
		"watchlist":         env.watchlist.Load,
		"continue watching": env.continues.Load,
		"recent searches":   env.recent.Load,
	} {
		if err := load(); err != nil {
			env.Close()
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
	}

	env.catalog, err = tmdb.NewClient(tmdb.Options{
		BaseURL:      cfg.Catalog.BaseURL,
		ImageBaseURL: cfg.Catalog.ImageBaseURL,
		Token:        cfg.Catalog.Token,
		Language:     cfg.Catalog.Language,
		Timeout:      cfg.Catalog.HTTPTimeout,
		CacheSize:    cfg.Catalog.DetailCacheSize,
	})
	if err != nil {
		env.Close()
		return nil, err
	}
	if !env.catalog.Configured() {
		debuglog.Warnf("no catalog token configured; remote calls will fail")
	}
	return env, nil
}

// openIndex builds the local library index. A bleve index that cannot be
// opened is replaced by the in-memory scan engine.
func (e *environment) openIndex() error {
	var idx search.LibraryIndex
	if e.cfg.Database.SearchIndex != "" {
		path, err := e.paths.DirectoryPath(e.cfg.Database.SearchIndex)
		if err == nil {
			var bleveIdx *search.BleveIndex
			if bleveIdx, err = search.NewBleveIndex(path); err == nil {
				idx = bleveIdx
			}
		}
		if err != nil {
			debuglog.Warnf("library index unavailable, using scan search: %v", err)
		}
	}
	if idx == nil {
		idx = search.NewScanEngine()
	}
	if err := search.SyncLibrary(idx, e.watchlist, e.continues); err != nil {
		idx.Close()
		return fmt.Errorf("indexing library: %w", err)
	}
	e.index = idx
	return nil
}

func (e *environment) searchService() *search.Service {
	opts := []search.ServiceOption{search.WithMaxResults(e.cfg.Search.MaxResults)}
	if e.index != nil {
		opts = append(opts, search.WithLocalIndex(e.index))
	}
	return search.NewService(e.catalog, e.recent, opts...)
}

func (e *environment) Close() {
	if e.index != nil {
		e.index.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
	debuglog.Close()
}

func runTUI(out io.Writer) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.openIndex(); err != nil {
		return err
	}
	cfg := env.cfg

	if !quiet {
		fmt.Fprintln(out, tui.Banner(Version))
	}
	tui.ApplyTheme(cfg.UI.Colors)

	provider, err := auth.NewLocalProvider(env.store)
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	registry := plugins.NewRegistry(cfg.Catalog.HTTPTimeout)
	sites.RegisterDefaults(registry)

	hosts := registry.Hosts()
	if u, err := url.Parse(cfg.Catalog.ImageBaseURL); err == nil && u.Hostname() != "" {
		hosts = append(hosts, u.Hostname())
	}
	launcher := media.NewLauncher(&cfg.Media,
		media.WithValidator(validation.NewPlaybackURLValidator(hosts...)),
	)

	app := tui.NewApp(tui.Deps{
		Config:    cfg,
		Catalog:   env.catalog,
		Search:    env.searchService(),
		Watchlist: env.watchlist,
		Continue:  env.continues,
		Auth:      provider,
		Trailers:  registry,
		Player:    launcher,
	})
	defer app.Close()

	debuglog.Infof("starting flix %s", Version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
