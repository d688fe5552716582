// Package logoverlay shows recent debug log lines on top of the
// presentation.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/ui/overlay"
	"github.com/zjrosen/podium/internal/ui/styles"
)

const (
	maxEntries  = 500
	maxBoxWidth = 140
	maxRows     = 20
)

var levelTags = map[log.Level]string{
	log.LevelDebug: "[DEBUG]",
	log.LevelInfo:  "[INFO]",
	log.LevelWarn:  "[WARN]",
	log.LevelError: "[ERROR]",
}

// Model buffers log entries and renders them in a scrollable box.
type Model struct {
	entries  []string
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
}

func New() Model {
	return Model{viewport: viewport.New(0, 0)}
}

// Append records one log entry, dropping the oldest beyond the buffer size.
func (m Model) Append(entry string) Model {
	m.entries = append(m.entries, strings.TrimRight(entry, "\n"))
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
	if m.visible {
		m.refresh()
	}
	return m
}

func (m Model) Visible() bool { return m.visible }

// Toggle shows or hides the overlay.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	m.refresh()
	return m
}

// Update handles level filter and scroll keys while visible.
func (m Model) Update(msg tea.Msg) Model {
	k, ok := msg.(tea.KeyMsg)
	if !ok || !m.visible {
		return m
	}
	switch k.String() {
	case "d":
		m.minLevel = log.LevelDebug
	case "i":
		m.minLevel = log.LevelInfo
	case "w":
		m.minLevel = log.LevelWarn
	case "e":
		m.minLevel = log.LevelError
	case "j", "down":
		m.viewport.ScrollDown(1)
		return m
	case "k", "up":
		m.viewport.ScrollUp(1)
		return m
	case "esc", "L":
		m.visible = false
		return m
	default:
		return m
	}
	m.refresh()
	return m
}

// Filtered returns the buffered entries at or above the selected level.
func (m Model) Filtered() []string {
	var out []string
	for _, e := range m.entries {
		if m.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (m Model) matches(entry string) bool {
	for level, tag := range levelTags {
		if strings.Contains(entry, tag) {
			return level >= m.minLevel
		}
	}
	return true
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, maxBoxWidth), 20)
}

func (m *Model) refresh() {
	w := m.boxWidth() - 2
	lines := m.Filtered()
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, w, "…")
	}
	if len(lines) == 0 {
		lines = []string{styles.MutedStyle.Render("no log entries")}
	}
	m.viewport.Width = w
	m.viewport.Height = max(min(m.height-8, maxRows), 3)
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// Overlay draws the log box over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	hint := styles.MutedStyle.Render("level: " + m.minLevel.String() + "  d/i/w/e filter  esc close")
	box := styles.OverlayBoxStyle.Padding(0, 1).Width(m.boxWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, styles.TitleStyle.Render("Logs"), m.viewport.View(), hint),
	)
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, box, bg)
}
