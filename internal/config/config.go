// Package config provides configuration types and defaults for podium.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/podium/internal/engine"
	"github.com/zjrosen/podium/internal/intent"
	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/tracing"
)

// Config holds all configuration options for podium.
type Config struct {
	Navigation NavigationConfig `mapstructure:"navigation"`
	AutoSlide  AutoSlideConfig  `mapstructure:"autoslide"`
	Media      MediaConfig      `mapstructure:"media"`
	UI         UIConfig         `mapstructure:"ui"`
	History    HistoryConfig    `mapstructure:"history"`
	Remote     RemoteConfig     `mapstructure:"remote"`
	Tracing    tracing.Config   `mapstructure:"tracing"`
	Flags      map[string]bool  `mapstructure:"flags"`
}

// NavigationConfig controls how intents move through the deck.
type NavigationConfig struct {
	Loop              bool   `mapstructure:"loop"`
	RTL               bool   `mapstructure:"rtl"`
	Fragments         bool   `mapstructure:"fragments"`
	FragmentInURL     bool   `mapstructure:"fragment_in_url"`
	HashOneBasedIndex bool   `mapstructure:"hash_one_based_index"`
	Mode              string `mapstructure:"navigation_mode"` // "default", "linear" or "grid"
	ViewDistance      int    `mapstructure:"view_distance"`
	Overview          bool   `mapstructure:"overview"`
	Pause             bool   `mapstructure:"pause"`
}

// AutoSlideConfig controls the autonomous advance.
type AutoSlideConfig struct {
	// DefaultMs is the global advance in milliseconds. 0 leaves only
	// per-panel durations; negative disables autoslide.
	DefaultMs int    `mapstructure:"default_ms"`
	Stoppable bool   `mapstructure:"stoppable"`
	Method    string `mapstructure:"method"` // intent name, "next" by default
}

// MediaConfig holds the media autoplay policy.
type MediaConfig struct {
	// Autoplay forces autoplay on or off; unset leaves it to each element.
	Autoplay *bool `mapstructure:"autoplay"`
}

// UIConfig holds renderer options.
type UIConfig struct {
	Progress      bool   `mapstructure:"progress"`
	SlideNumber   string `mapstructure:"slide_number"` // "h.v", "h/v", "c" or "c/t"
	ShowNotes     bool   `mapstructure:"show_notes"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	Width         int    `mapstructure:"width"`          // 0 uses the terminal width
	Height        int    `mapstructure:"height"`
}

// HistoryConfig selects where the location token is kept between runs.
type HistoryConfig struct {
	Store    string        `mapstructure:"store"` // "none", "file" or "sqlite"
	Path     string        `mapstructure:"path"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// RemoteConfig configures the remote-control endpoint.
type RemoteConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Store kinds.
const (
	StoreNone   = "none"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// DefaultHistoryPath returns the default location database path.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".podium", "podium.db")
	}
	return filepath.Join(home, ".podium", "podium.db")
}

// DefaultTracesFilePath returns the default trace file path.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".podium", "traces.jsonl")
	}
	return filepath.Join(home, ".config", "podium", "traces", "traces.jsonl")
}

// ValidateNavigation checks navigation configuration for errors.
func ValidateNavigation(nav NavigationConfig) error {
	switch nav.Mode {
	case "", string(engine.ModeDefault), string(engine.ModeLinear), string(engine.ModeGrid):
	default:
		return fmt.Errorf("navigation.navigation_mode must be \"default\", \"linear\" or \"grid\", got %q", nav.Mode)
	}
	if nav.ViewDistance < 0 {
		return fmt.Errorf("navigation.view_distance must not be negative, got %d", nav.ViewDistance)
	}
	return nil
}

// ValidateAutoSlide checks autoslide configuration for errors.
func ValidateAutoSlide(as AutoSlideConfig) error {
	if as.Method == "" {
		return nil
	}
	k, err := intent.Parse(as.Method)
	if err != nil {
		return fmt.Errorf("autoslide.method: %w", err)
	}
	switch k {
	case intent.Next, intent.Prev, intent.Left, intent.Right, intent.Up, intent.Down:
		return nil
	}
	return fmt.Errorf("autoslide.method must be a directional intent, got %q", as.Method)
}

// ValidateUI checks renderer configuration for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.SlideNumber {
	case "", string(engine.NumberHDotV), string(engine.NumberHSlashV), string(engine.NumberCount), string(engine.NumberCountTotal):
	default:
		return fmt.Errorf("ui.slide_number must be \"h.v\", \"h/v\", \"c\" or \"c/t\", got %q", ui.SlideNumber)
	}
	switch ui.MarkdownStyle {
	case "", "dark", "light", "notty":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\", \"light\" or \"notty\", got %q", ui.MarkdownStyle)
	}
	if ui.Width < 0 || ui.Height < 0 {
		return fmt.Errorf("ui.width and ui.height must not be negative")
	}
	return nil
}

// ValidateHistory checks history configuration for errors.
func ValidateHistory(h HistoryConfig) error {
	switch h.Store {
	case "", StoreNone:
		return nil
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("history.store must be \"none\", \"file\" or \"sqlite\", got %q", h.Store)
	}
	if h.Path == "" {
		return fmt.Errorf("history.path is required when store is %q", h.Store)
	}
	if h.Debounce < 0 {
		return fmt.Errorf("history.debounce must not be negative")
	}
	return nil
}

// ValidateRemote checks remote-control configuration for errors.
func ValidateRemote(r RemoteConfig) error {
	if r.Enabled && r.Addr == "" {
		return fmt.Errorf("remote.addr is required when remote control is enabled")
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	if t.Exporter != "" {
		switch t.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}
	if t.Enabled {
		if t.Exporter == "file" && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == "otlp" && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// Validate runs every section validator.
func (c Config) Validate() error {
	for _, err := range []error{
		ValidateNavigation(c.Navigation),
		ValidateAutoSlide(c.AutoSlide),
		ValidateUI(c.UI),
		ValidateHistory(c.History),
		ValidateRemote(c.Remote),
		ValidateTracing(c.Tracing),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Engine converts the navigation, autoslide and media sections into the
// engine's configuration.
func (c Config) Engine() engine.Config {
	ec := engine.DefaultConfig()
	ec.Loop = c.Navigation.Loop
	ec.RTL = c.Navigation.RTL
	ec.Fragments = c.Navigation.Fragments
	ec.FragmentInURL = c.Navigation.FragmentInURL
	ec.OneBasedIndex = c.Navigation.HashOneBasedIndex
	if c.Navigation.Mode != "" {
		ec.NavigationMode = engine.NavigationMode(c.Navigation.Mode)
	}
	if c.Navigation.ViewDistance > 0 {
		ec.ViewDistance = c.Navigation.ViewDistance
	}
	ec.Overview = c.Navigation.Overview
	ec.Pause = c.Navigation.Pause

	ec.AutoSlide = time.Duration(c.AutoSlide.DefaultMs) * time.Millisecond
	ec.AutoSlideStoppable = c.AutoSlide.Stoppable
	if k, err := intent.Parse(c.AutoSlide.Method); err == nil {
		ec.AutoSlideMethod = k
	}
	ec.AutoPlayMedia = c.Media.Autoplay
	ec.HistoryDebounce = c.History.Debounce
	if c.UI.SlideNumber != "" {
		ec.SlideNumber = engine.SlideNumberFormat(c.UI.SlideNumber)
	}
	return ec
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		Navigation: NavigationConfig{
			Fragments:    true,
			Mode:         string(engine.ModeDefault),
			ViewDistance: 3,
			Overview:     true,
			Pause:        true,
		},
		AutoSlide: AutoSlideConfig{
			Stoppable: true,
			Method:    "next",
		},
		UI: UIConfig{
			Progress:      true,
			SlideNumber:   string(engine.NumberHDotV),
			MarkdownStyle: "dark",
		},
		History: HistoryConfig{
			Store:    StoreSQLite,
			Path:     DefaultHistoryPath(),
			Debounce: 500 * time.Millisecond,
		},
		Remote: RemoteConfig{
			Addr: "127.0.0.1:7878",
		},
		Tracing: tc,
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Podium Configuration

# Navigation behavior
navigation:
  loop: false                 # Wrap around at the first and last section
  rtl: false                  # Right-to-left section order
  fragments: true             # Step through fragments before moving on
  fragment_in_url: false      # Record the fragment cursor in the location token
  hash_one_based_index: false # Count location tokens from 1
  navigation_mode: default    # default, linear or grid
  view_distance: 3            # Panels kept loaded around the present one
  overview: true              # Allow the overview grid (o)
  pause: true                 # Allow blanking the presentation (b)

# Autonomous advance
autoslide:
  default_ms: 0     # Global advance in ms; 0 = per-panel only, negative = off
  stoppable: true   # Any key pauses the advance
  method: next      # Intent fired by the timer

# Embedded media
# media:
#   autoplay: true  # Force autoplay on (true) or off (false); unset = per element

# Renderer settings
ui:
  progress: true         # Show the progress bar
  slide_number: h.v      # h.v, h/v, c or c/t
  show_notes: false      # Show speaker notes below the panel
  markdown_style: dark   # Markdown rendering style: "dark" (default) or "light"
  # width: 100           # Fixed panel width (default: terminal width)
  # height: 30

# Where the last position is kept between runs
history:
  store: sqlite          # none, file or sqlite
  # path: ~/.podium/podium.db
  debounce: 500ms        # Delay for bulk location writes

# Remote control over HTTP (requires the remote-control flag)
# remote:
#   enabled: true
#   addr: 127.0.0.1:7878

# Transition tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/podium/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Feature flags
# flags:
#   remote-control: true
#   live-reload: true
#   render-cache: true
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
