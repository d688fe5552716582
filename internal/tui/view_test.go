package tui

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/overview"
)

func TestVisibleBody_HidesUnrevealedFragments(t *testing.T) {
	p := &deck.Panel{
		Body: "# Plan\n\n- **first** step\n- second step",
		Fragments: []*deck.Fragment{
			{Text: "first step", State: deck.Visible},
			{Text: "second step"},
		},
	}

	require.Equal(t, "# Plan\n\n- **first** step", visibleBody(p))
}

func TestVisibleBody_AppendsShownFragmentsMissingFromBody(t *testing.T) {
	p := &deck.Panel{
		Body:      "# Plan",
		Fragments: []*deck.Fragment{{Text: "later", State: deck.Current}},
	}

	require.Equal(t, "# Plan\n- later", visibleBody(p))
}

func TestCellTitle_TruncatesOnGraphemes(t *testing.T) {
	p := &deck.Panel{Title: "日本語のスライドタイトル"}

	got := cellTitle(p, 10)

	require.LessOrEqual(t, runewidth.StringWidth(got), 10)
	require.Equal(t, "日本語の…", got)
	require.Equal(t, "untitled", cellTitle(&deck.Panel{}, 10))
}

func TestGroupColumns_OrdersByPosition(t *testing.T) {
	ps := []overview.Placement{
		{H: 0, V: 0, X: 0, Y: 0},
		{H: 1, V: 1, X: -20, Y: 12},
		{H: 1, V: 0, X: -20, Y: 0},
	}

	cols := groupColumns(ps)

	require.Len(t, cols, 2)
	require.Equal(t, 1, cols[0][0].H)
	require.Equal(t, 1, cols[0][1].V)
	require.Equal(t, 0, cols[1][0].H)
}
