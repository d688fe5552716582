// Package log is podium's structured debug log. Lines are tagged with a
// level and a category, written to a file opened through tea.LogToFile and
// republished on a broker so the presenter can show them in an overlay.
// Nothing is written until Init or InitWithWriter is called.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/podium/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel reads a level name such as "warn", case-insensitively.
func ParseLevel(s string) (Level, bool) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), true
		}
	}
	return LevelDebug, false
}

// Category groups related log messages.
type Category string

const (
	CatNav       Category = "nav"       // Navigation state machine transitions
	CatFragment  Category = "fragment"  // Fragment reveal/hide
	CatOverview  Category = "overview"  // Overview projection
	CatAutoSlide Category = "autoslide" // Autonomous advance timer
	CatHistory   Category = "history"   // Location token sync
	CatMedia     Category = "media"     // Embedded media lifecycle
	CatDeck      Category = "deck"      // Deck loading and indexing
	CatConfig    Category = "config"    // Configuration loading/saving
	CatWatcher   Category = "watcher"   // Deck file watcher events
	CatUI        Category = "ui"        // Renderer updates
	CatDB        Category = "db"        // Location store operations
	CatRemote    Category = "remote"    // Remote control endpoint
	CatCache     Category = "cache"     // Render cache operations
)

// EnvDebug enables logging when set. A level name ("info", "warn") also
// raises the minimum level.
const EnvDebug = "PODIUM_DEBUG"

// Logger writes formatted entries and fans them out to listeners.
type Logger struct {
	mu       sync.Mutex
	w        io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var defaultLogger *Logger

// Init starts logging to path through tea.LogToFile. The returned func
// closes the file.
func Init(path string) (func(), error) {
	f, err := tea.LogToFile(path, "podium")
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	InitWithWriter(f)
	return func() { _ = f.Close() }, nil
}

// InitWithWriter points the global logger at w. Tests use it with a buffer.
func InitWithWriter(w io.Writer) {
	defaultLogger = &Logger{
		w:        w,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
	}
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := defaultLogger; l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	if l := defaultLogger; l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

func Debug(cat Category, msg string, fields ...any) { write(LevelDebug, cat, msg, fields) }

func Info(cat Category, msg string, fields ...any) { write(LevelInfo, cat, msg, fields) }

func Warn(cat Category, msg string, fields ...any) { write(LevelWarn, cat, msg, fields) }

func Error(cat Category, msg string, fields ...any) { write(LevelError, cat, msg, fields) }

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	value := "<nil>"
	if err != nil {
		value = err.Error()
	}
	write(LevelError, cat, msg, append(fields, "error", value))
}

func write(level Level, cat Category, msg string, fields []any) {
	if l := defaultLogger; l != nil {
		l.write(time.Now(), level, cat, msg, fields)
	}
}

func (l *Logger) write(ts time.Time, level Level, cat Category, msg string, fields []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || level < l.minLevel {
		return
	}

	entry := format(ts, level, cat, msg, fields...)
	if l.w != nil {
		_, _ = io.WriteString(l.w, entry)
	}
	l.broker.Publish(pubsub.CreatedEvent, entry)
}

// format renders "2025-12-06T10:45:00 [DEBUG] [nav] message k=v k2=v2".
func format(ts time.Time, level Level, cat Category, msg string, fields ...any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i < len(fields); i += 2 {
		if i+1 == len(fields) {
			fmt.Fprintf(&b, " %v=<missing>", fields[i])
			break
		}
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	b.WriteByte('\n')
	return b.String()
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[string]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[string]

// NewListener subscribes to log entries until ctx is done. It returns nil
// when logging was never initialized.
func NewListener(ctx context.Context) *LogListener {
	if defaultLogger == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, defaultLogger.broker)
}
