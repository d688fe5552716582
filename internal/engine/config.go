package engine

import (
	"time"

	"github.com/zjrosen/podium/internal/intent"
)

// NavigationMode changes how directional intents move.
type NavigationMode string

const (
	// ModeDefault moves left/right between sections and up/down in stacks.
	ModeDefault NavigationMode = "default"
	// ModeLinear makes left/right behave like prev/next outside the overview.
	ModeLinear NavigationMode = "linear"
	// ModeGrid keeps the vertical index when moving horizontally.
	ModeGrid NavigationMode = "grid"
)

// SlideNumberFormat selects the position indicator text.
type SlideNumberFormat string

const (
	// NumberHDotV renders "h.v" (default).
	NumberHDotV SlideNumberFormat = "h.v"
	// NumberHSlashV renders "h/v".
	NumberHSlashV SlideNumberFormat = "h/v"
	// NumberCount renders the flattened panel number.
	NumberCount SlideNumberFormat = "c"
	// NumberCountTotal renders "c/t".
	NumberCountTotal SlideNumberFormat = "c/t"
)

// Parallax configures the background offset that follows navigation. The
// image size is in the same units as the viewport.
type Parallax struct {
	ImageWidth, ImageHeight int
	// Horizontal and Vertical override the computed per-step offsets.
	Horizontal, Vertical float64
}

// Config holds the engine's behavior switches.
type Config struct {
	Loop bool
	RTL  bool
	// Fragments enables fragment stepping.
	Fragments bool
	// FragmentInURL records the fragment cursor in location tokens.
	FragmentInURL bool
	// OneBasedIndex makes location tokens count from 1.
	OneBasedIndex  bool
	NavigationMode NavigationMode
	// ViewDistance is how many panels away from the present one stay loaded.
	ViewDistance int
	// Overview allows the grid projection.
	Overview bool
	// Pause allows pausing the presentation.
	Pause bool

	// AutoSlide is the default advance duration; 0 leaves only per-panel
	// durations and a negative value disables autoslide altogether.
	AutoSlide time.Duration
	// AutoSlideStoppable pauses the autoslide on any user intent.
	AutoSlideStoppable bool
	// AutoSlideMethod is the intent fired by the timer.
	AutoSlideMethod intent.Kind
	// AutoPlayMedia forces media autoplay on or off; nil defers to each
	// element.
	AutoPlayMedia *bool

	SlideNumber SlideNumberFormat
	Parallax    Parallax

	// HistoryDebounce delays the location write after Sync and Restore; 0
	// writes immediately.
	HistoryDebounce time.Duration
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Fragments:          true,
		NavigationMode:     ModeDefault,
		ViewDistance:       3,
		Overview:           true,
		Pause:              true,
		AutoSlideStoppable: true,
		AutoSlideMethod:    intent.Next,
		SlideNumber:        NumberHDotV,
		HistoryDebounce:    500 * time.Millisecond,
	}
}
