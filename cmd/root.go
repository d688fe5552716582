package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/podium/internal/config"
	"github.com/zjrosen/podium/internal/content"
	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/flags"
	"github.com/zjrosen/podium/internal/history"
	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/media"
	"github.com/zjrosen/podium/internal/remote"
	"github.com/zjrosen/podium/internal/tracing"
	"github.com/zjrosen/podium/internal/tui"
	"github.com/zjrosen/podium/internal/watcher"
)

func init() {
	// Query the terminal background before the program owns stdin, otherwise
	// the OSC 11 reply can leak into the input loop.
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".podium/config.yaml"

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "podium <deck>",
	Short:   "Present markdown and YAML slide decks in the terminal",
	Long:    `Podium presents a deck of sections and vertical stacks with fragments, an overview grid, autoslide and a remote-control endpoint.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/podium/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"write a debug log to debug.log and enable the log overlay (L)")
	rootCmd.Flags().StringP("start", "s", "",
		"location token to open at, e.g. /2/1 (default: last stored location)")
	rootCmd.Flags().Bool("no-live-reload", false,
		"do not reload the deck when the file changes")
	rootCmd.Flags().String("remote", "",
		"serve the remote-control endpoint on this address")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("navigation.fragments", defaults.Navigation.Fragments)
	viper.SetDefault("navigation.navigation_mode", defaults.Navigation.Mode)
	viper.SetDefault("navigation.view_distance", defaults.Navigation.ViewDistance)
	viper.SetDefault("navigation.overview", defaults.Navigation.Overview)
	viper.SetDefault("navigation.pause", defaults.Navigation.Pause)
	viper.SetDefault("autoslide.stoppable", defaults.AutoSlide.Stoppable)
	viper.SetDefault("autoslide.method", defaults.AutoSlide.Method)
	viper.SetDefault("ui.progress", defaults.UI.Progress)
	viper.SetDefault("ui.slide_number", defaults.UI.SlideNumber)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("history.store", defaults.History.Store)
	viper.SetDefault("history.path", defaults.History.Path)
	viper.SetDefault("history.debounce", defaults.History.Debounce)
	viper.SetDefault("remote.addr", defaults.Remote.Addr)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .podium/config.yaml (current directory)
		// 2. ~/.config/podium/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "podium"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func initLogging() (func(), error) {
	env := os.Getenv(log.EnvDebug)
	if !debug && env == "" {
		return func() {}, nil
	}
	cleanup, err := log.Init("debug.log")
	if err != nil {
		return nil, fmt.Errorf("initializing debug log: %w", err)
	}
	if level, ok := log.ParseLevel(env); ok {
		log.SetMinLevel(level)
	}
	debug = true
	log.Info(log.CatConfig, "podium starting", "version", version, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	cleanupLog, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanupLog()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	registry := flags.New(cfg.Flags)

	deckPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving deck path: %w", err)
	}
	load := func() (*deck.Deck, error) { return content.Load(deckPath, content.MarkdownOptions{}) }
	d, err := load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sched := tui.NewScheduler()
	stores, err := openStores(cfg.History, deckPath, d.Title)
	if err != nil {
		return err
	}
	defer stores.Close()

	start, _ := cmd.Flags().GetString("start")
	if start == "" {
		start = loadStartToken(ctx, stores.Location)
	}

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("creating tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	opts := tui.Options{
		Deck:       d,
		DeckPath:   deckPath,
		Config:     cfg,
		ConfigPath: configPath(),
		Flags:      registry,
		StartToken: start,
		Scheduler:  sched,
		Player:     media.NewTerminalPlayer(filepath.Dir(deckPath)),
		Debug:      debug,
		Status:     &remote.StatusBox{},
	}
	if stores.Location != nil {
		opts.History = history.NewWriter(stores.Location, sched)
	}
	if stores.Bookmarks != nil {
		opts.Bookmarks = stores.Bookmarks
	}
	if tp.Enabled() {
		opts.Tracer = tp.Tracer()
	}

	noReload, _ := cmd.Flags().GetBool("no-live-reload")
	if registry.Enabled(flags.FlagLiveReload) && !noReload {
		w, err := watcher.New(watcher.DefaultConfig(deckPath))
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer func() { _ = w.Stop() }()
		opts.Reload = w.Broker()
		opts.Loader = load
	}

	model := tui.New(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	sched.Bind(p.Send)

	remoteAddr, _ := cmd.Flags().GetString("remote")
	if remoteAddr == "" && (cfg.Remote.Enabled || registry.Enabled(flags.FlagRemoteControl)) {
		remoteAddr = cfg.Remote.Addr
	}
	if remoteAddr != "" {
		srv := remote.NewServer(p, opts.Status)
		addr, err := srv.Start(remoteAddr)
		if err != nil {
			return fmt.Errorf("starting remote control: %w", err)
		}
		log.Info(log.CatRemote, "listening", "addr", addr.String())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	_, err = p.Run()
	if opts.History != nil {
		opts.History.Flush(ctx)
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// configPath is where toggled settings are written back.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return localConfigPath
}

func loadStartToken(ctx context.Context, store history.Store) string {
	if store == nil {
		return ""
	}
	token, err := store.Load(ctx)
	if err != nil {
		if !errors.Is(err, history.ErrNoToken) {
			log.ErrorErr(log.CatHistory, "loading stored location", err)
		}
		return ""
	}
	return token
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
