// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, footers

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"} // Present panel in overview

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"}

	// Progress bar gradient
	ProgressStartColor = "#5A56E0"
	ProgressEndColor   = "#EE6FF8"

	// Background tones for panels that declare one
	ToneLightBg = lipgloss.Color("#EEEEEE")
	ToneDarkBg  = lipgloss.Color("#1A1A1A")

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)

	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 2)

	CellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)

	CellPresentStyle = CellStyle.
				BorderForeground(BorderFocusColor).
				Bold(true)

	// CellPastStyle dims panels already shown.
	CellPastStyle = CellStyle.Foreground(TextMutedColor)

	NotesStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(BorderDefaultColor).
			Foreground(TextSecondaryColor)

	PausedStyle = lipgloss.NewStyle().Bold(true).Foreground(StatusWarningColor)

	OverlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderFocusColor).
			Padding(1, 2)
)
