// Package toaster shows short-lived notices (reloads, bookmarks, media
// failures) stacked in the corner of the presentation.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/podium/internal/ui/overlay"
	"github.com/zjrosen/podium/internal/ui/styles"
)

// Style selects the border color and icon.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// MaxToasts bounds the stack; the oldest toast is dropped first.
const MaxToasts = 3

// DismissMsg hides the toast with the matching ID.
type DismissMsg struct{ ID int }

type toast struct {
	id      int
	message string
	style   Style
}

// Model is a stack of toasts, oldest first.
type Model struct {
	toasts []toast
	nextID int
}

func New() Model {
	return Model{}
}

// Show pushes a toast and returns the command that dismisses it after d.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.nextID++
	id := m.nextID

	toasts := append([]toast(nil), m.toasts...)
	toasts = append(toasts, toast{id: id, message: message, style: style})
	if len(toasts) > MaxToasts {
		toasts = toasts[len(toasts)-MaxToasts:]
	}
	m.toasts = toasts

	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{ID: id} })
}

// Update handles DismissMsg. Unknown IDs are ignored.
func (m Model) Update(msg tea.Msg) Model {
	d, ok := msg.(DismissMsg)
	if !ok {
		return m
	}
	kept := make([]toast, 0, len(m.toasts))
	for _, t := range m.toasts {
		if t.id != d.ID {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
	return m
}

func (m Model) Visible() bool {
	return len(m.toasts) > 0
}

// Len reports how many toasts are showing.
func (m Model) Len() int {
	return len(m.toasts)
}

func (m Model) View() string {
	if len(m.toasts) == 0 {
		return ""
	}
	boxes := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		boxes[i] = render(t)
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func render(t toast) string {
	color, icon := styles.StatusSuccessColor, "✓"
	switch t.style {
	case StyleError:
		color, icon = styles.StatusErrorColor, "✗"
	case StyleInfo:
		color, icon = styles.StatusInfoColor, "i"
	case StyleWarn:
		color, icon = styles.StatusWarningColor, "!"
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(icon + " " + t.message)
}

// Overlay draws the stack in the lower right corner of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.Visible() {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.BottomRight,
		PadX:     1,
		PadY:     2,
	}, m.View(), bg)
}
