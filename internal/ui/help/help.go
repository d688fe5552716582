// Package help contains the keybinding overlay.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/podium/internal/keys"
	"github.com/zjrosen/podium/internal/ui/overlay"
	"github.com/zjrosen/podium/internal/ui/styles"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.BorderFocusColor)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor).MarginTop(1)
	keyStyle     = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Width(10)
	descStyle    = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	columnStyle  = lipgloss.NewStyle().MarginRight(4)
)

// sections name the groups returned by KeyMap.FullHelp, in order.
var sections = []string{"Navigation", "Modes", "General"}

// Model renders the full keymap.
type Model struct {
	keys          keys.KeyMap
	width, height int
}

func New(km keys.KeyMap) Model {
	return Model{keys: km}
}

func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Overlay centers the help box over background.
func (m Model) Overlay(background string) string {
	box := styles.OverlayBoxStyle.Render(m.content())
	if background == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, box, background)
}

func (m Model) content() string {
	var cols []string
	for i, group := range m.keys.FullHelp() {
		var b strings.Builder
		if i < len(sections) {
			b.WriteString(sectionStyle.Render(sections[i]))
			b.WriteByte('\n')
		}
		for _, binding := range group {
			b.WriteString(renderBinding(binding))
		}
		cols = append(cols, columnStyle.Render(b.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keybindings"),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		descStyle.Render("press ? or esc to close"),
	)
}

func renderBinding(b key.Binding) string {
	if !b.Enabled() {
		return ""
	}
	h := b.Help()
	return keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n"
}
