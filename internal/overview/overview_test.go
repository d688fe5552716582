package overview

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/podium/internal/deck"
)

func gridDeck() *deck.Deck {
	return deck.New("grid",
		deck.NewLeaf(&deck.Panel{}),
		deck.NewStack(&deck.Panel{}, &deck.Panel{}),
		deck.NewLeaf(&deck.Panel{}),
	)
}

func TestLayout_OffsetsByIndex(t *testing.T) {
	got := Layout(gridDeck(), DefaultGeometry(960, 700), false)

	require.Len(t, got, 4)
	require.Equal(t, [2]int{0, 0}, [2]int{got[0].X, got[0].Y})
	require.Equal(t, [2]int{1030, 0}, [2]int{got[1].X, got[1].Y})
	require.Equal(t, [2]int{1030, 770}, [2]int{got[2].X, got[2].Y})
	require.Equal(t, [2]int{2060, 0}, [2]int{got[3].X, got[3].Y})
	require.Equal(t, 1, got[2].V)
}

func TestLayout_RTLFlipsHorizontalOnly(t *testing.T) {
	got := Layout(gridDeck(), Geometry{Width: 10, Height: 4, Margin: 2}, true)

	require.Equal(t, -12, got[1].X)
	require.Equal(t, 6, got[2].Y)
	require.Equal(t, -24, got[3].X)
}

func TestProject(t *testing.T) {
	p := Project(1000, 800, DefaultGeometry(960, 700), 2, 1, false)

	require.InDelta(t, 0.2, p.Scale, 1e-9)
	require.Equal(t, -2060, p.TranslateX)
	require.Equal(t, -770, p.TranslateY)

	small := Project(300, 500, DefaultGeometry(960, 700), 0, 0, true)
	require.InDelta(t, 0.5, small.Scale, 1e-9)

	require.Equal(t, 1.0, Project(0, 0, Geometry{}, 0, 0, false).Scale)
}
