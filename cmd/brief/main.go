package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/news"
	"github.com/pders01/brief/internal/storage"
	"github.com/pders01/brief/internal/tui"
	"github.com/pders01/brief/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	flagConfig   string
	flagEndpoint string
	flagSearch   string
	flagTheme    string
	flagLogLevel string
	flagQuiet    bool
	flagNoCache  bool
	flagGenPath  string
)

var rootCmd = &cobra.Command{
	Use:           "brief",
	Short:         "Terminal news reader",
	Long:          "brief searches a news backend by topic and shows the results as an infinitely scrolling card grid.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(os.Stdout)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := generateConfig(flagGenPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagConfig, "config", "", "path to configuration file")
	f.StringVar(&flagEndpoint, "endpoint", "", "news backend base URL (overrides config)")
	f.StringVar(&flagSearch, "search", "", "initial search term (overrides config)")
	f.StringVar(&flagTheme, "theme", "", "initial theme: light or dark")
	f.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error, off")
	f.BoolVar(&flagQuiet, "quiet", false, "skip startup banner")
	f.BoolVar(&flagNoCache, "no-cache", false, "do not read or write the response cache")

	configGenCmd.Flags().StringVar(&flagGenPath, "path", "", "output path (default ~/.config/brief/config.toml)")
	configCmd.AddCommand(configGenCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "brief %s\n", Version)
	fmt.Fprintln(w, tui.Tagline)
	fmt.Fprintln(w, "github.com/pders01/brief")
}

func generateConfig(path string) (string, error) {
	if path == "" {
		path = filepath.Join(config.Dir(), "config.toml")
	}
	clean, err := validation.EnsureParentDir(path)
	if err != nil {
		return "", err
	}
	if err := config.GenerateDefaultConfig(clean); err != nil {
		return "", err
	}
	return clean, nil
}

// loadConfig reads the config file and layers command-line overrides on top.
func loadConfig() (*config.Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagEndpoint != "" {
		cfg.API.BaseURL = flagEndpoint
	}
	if flagSearch != "" {
		cfg.UI.DefaultSearch = flagSearch
	}
	if flagTheme != "" {
		cfg.UI.Theme = flagTheme
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagNoCache {
		cfg.Cache.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// cachedSource wraps client in the bbolt response cache when enabled. The
// returned close func is never nil.
func cachedSource(cfg *config.Config, client news.Source) (news.Source, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Cache.Enabled {
		return client, noop, nil
	}

	path, err := validation.EnsureParentDir(cfg.Cache.Path)
	if err != nil {
		return nil, noop, fmt.Errorf("cache path: %w", err)
	}
	store, err := storage.NewStore(path, cfg.Cache.Timeout)
	if err != nil {
		return nil, noop, err
	}
	cached := storage.NewCachedSource(client, store, cfg.Cache.TTL)
	return cached, cached.Close, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer debuglog.Close()

	client, err := news.NewClient(cfg)
	if err != nil {
		return err
	}
	debuglog.Infof("brief %s starting, backend %s", Version, client.Endpoint())

	source, closeSource, err := cachedSource(cfg, client)
	if err != nil {
		// the cache is optional; run against the backend directly
		debuglog.Warnf("response cache unavailable: %v", err)
		source, closeSource = client, func() error { return nil }
	}
	defer func() {
		if err := closeSource(); err != nil {
			debuglog.Warnf("closing cache: %v", err)
		}
	}()

	if !flagQuiet {
		tui.ShowBanner(os.Stdout, Version)
	}

	app := tui.NewApp(source, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
