package help

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/podium/internal/keys"
)

func TestOverlay_ListsSectionsAndBindings(t *testing.T) {
	view := ansi.Strip(New(keys.DefaultKeyMap()).SetSize(100, 30).Overlay(""))

	for _, want := range []string{"Keybindings", "Navigation", "Modes", "General", "next", "overview", "quit"} {
		require.Contains(t, view, want)
	}
}

func TestOverlay_SkipsDisabledBindings(t *testing.T) {
	km := keys.DefaultKeyMap()
	km.Bookmark.SetEnabled(false)

	view := ansi.Strip(New(km).SetSize(100, 30).Overlay(""))

	require.NotContains(t, view, km.Bookmark.Help().Desc)
}

func TestOverlay_OnBackground(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 100)+"\n", 30), "\n")

	view := New(keys.DefaultKeyMap()).SetSize(100, 30).Overlay(bg)

	require.Len(t, strings.Split(view, "\n"), 30)
	require.Contains(t, ansi.Strip(view), "Keybindings")
}
