// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the presenter keybindings.
type KeyMap struct {
	// Navigation
	Next  key.Binding
	Prev  key.Binding
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	First key.Binding
	Last  key.Binding

	// Modes
	Overview  key.Binding
	Pick      key.Binding
	Pause     key.Binding
	AutoSlide key.Binding
	Notes     key.Binding
	Bookmark  key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys(" ", "n", "pgdown"),
			key.WithHelp("space/n", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "backspace", "pgup"),
			key.WithHelp("p/⌫", "previous"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "last"),
		),

		Overview: key.NewBinding(
			key.WithKeys("o", "esc"),
			key.WithHelp("o", "overview"),
		),
		Pick: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open panel"),
		),
		Pause: key.NewBinding(
			key.WithKeys("b", "."),
			key.WithHelp("b", "pause"),
		),
		AutoSlide: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "autoslide"),
		),
		Notes: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "speaker notes"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "bookmark"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Overview, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Left, k.Right, k.Up, k.Down, k.First, k.Last}, // Navigation
		{k.Overview, k.Pick, k.Pause, k.AutoSlide, k.Notes, k.Bookmark},  // Modes
		{k.Help, k.Quit}, // General
	}
}
