package fragments

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/podium/internal/deck"
)

func idx(i int) *int { return &i }

func orders(fs []*deck.Fragment) []int {
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = f.Order()
	}
	return out
}

func texts(fs []*deck.Fragment) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Text
	}
	return out
}

func TestSort_IndexedGroupsThenDocumentOrder(t *testing.T) {
	fs := []*deck.Fragment{
		{Text: "a"},
		{Text: "b", Index: idx(5)},
		{Text: "c"},
		{Text: "d", Index: idx(2)},
		{Text: "e", Index: idx(5)},
	}

	groups := Sort(fs)

	require.Len(t, groups, 4)
	require.Equal(t, []string{"d", "b", "e", "a", "c"}, texts(fs))
	require.Equal(t, []int{0, 1, 1, 2, 3}, orders(fs))
	require.Equal(t, []string{"b", "e"}, texts(groups[1]))
}

func TestSort_UnindexedPairGetsDenseIndices(t *testing.T) {
	a := &deck.Fragment{Text: "A"}
	b := &deck.Fragment{Text: "B"}

	Sort([]*deck.Fragment{a, b})

	require.Equal(t, 0, a.Order())
	require.Equal(t, 1, b.Order())
}

func TestSort_IsStable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(t, "n")
		fs := make([]*deck.Fragment, n)
		for i := range fs {
			fs[i] = &deck.Fragment{Text: string(rune('a' + i))}
			if rapid.Bool().Draw(t, "indexed") {
				fs[i].Index = idx(rapid.IntRange(-3, 6).Draw(t, "index"))
			}
		}

		Sort(fs)
		firstTexts, firstOrders := texts(fs), orders(fs)

		Sort(fs)
		require.Equal(t, firstTexts, texts(fs))
		require.Equal(t, firstOrders, orders(fs))

		for i := 1; i < len(fs); i++ {
			require.LessOrEqual(t, fs[i-1].Order(), fs[i].Order())
		}
	})
}

func panelWith(n int) *deck.Panel {
	p := &deck.Panel{}
	for i := 0; i < n; i++ {
		p.Fragments = append(p.Fragments, &deck.Fragment{Text: string(rune('A' + i))})
	}
	Sort(p.Fragments)
	return p
}

func TestReveal_TwiceIsEmpty(t *testing.T) {
	s := Sequencer{Enabled: true}
	p := panelWith(3)

	first := s.Reveal(p, 1)
	require.Len(t, first.Shown, 2)
	require.Equal(t, deck.Current, p.Fragments[1].State)

	second := s.Reveal(p, 1)
	require.True(t, second.Empty())
	require.Equal(t, deck.Current, p.Fragments[1].State)
}

func TestReveal_HidesLaterGroups(t *testing.T) {
	s := Sequencer{Enabled: true}
	p := panelWith(3)
	s.Reveal(p, 2)

	c := s.Reveal(p, 0)

	require.Equal(t, []string{"B", "C"}, texts(c.Hidden))
	require.Empty(t, c.Shown)
	require.Equal(t, []deck.FragmentState{deck.Current, deck.Hidden, deck.Hidden},
		[]deck.FragmentState{p.Fragments[0].State, p.Fragments[1].State, p.Fragments[2].State})
}

func TestReveal_GroupMovesTogether(t *testing.T) {
	s := Sequencer{Enabled: true}
	p := &deck.Panel{Fragments: []*deck.Fragment{
		{Text: "x", Index: idx(1)},
		{Text: "y", Index: idx(1)},
		{Text: "z"},
	}}
	Sort(p.Fragments)

	c, moved := s.Step(p, 1)

	require.True(t, moved)
	require.Equal(t, []string{"x", "y"}, texts(c.Shown))
	require.Equal(t, []string{"x", "y"}, texts(c.Current))
	require.Equal(t, 2, Count(p))
}

func TestStep_TwoFragmentsThenFallThrough(t *testing.T) {
	s := Sequencer{Enabled: true}
	p := panelWith(2)
	a, b := p.Fragments[0], p.Fragments[1]
	require.Equal(t, -1, Cursor(p))

	_, moved := s.Step(p, 1)
	require.True(t, moved)
	require.Equal(t, deck.Current, a.State)
	require.Equal(t, 0, Cursor(p))

	_, moved = s.Step(p, 1)
	require.True(t, moved)
	require.Equal(t, deck.Visible, a.State)
	require.Equal(t, deck.Current, b.State)

	_, moved = s.Step(p, 1)
	require.False(t, moved)
}

func TestStep_DisabledOrEmpty(t *testing.T) {
	_, moved := Sequencer{}.Step(panelWith(2), 1)
	require.False(t, moved)

	_, moved = Sequencer{Enabled: true}.Step(&deck.Panel{}, 1)
	require.False(t, moved)

	_, moved = Sequencer{Enabled: true}.Step(panelWith(2), -1)
	require.False(t, moved, "nothing to hide before the first fragment")
}

func TestAvailable(t *testing.T) {
	s := Sequencer{Enabled: true}
	p := panelWith(2)

	prev, next := s.Available(p)
	require.False(t, prev)
	require.True(t, next)

	s.Reveal(p, 1)
	prev, next = s.Available(p)
	require.True(t, prev)
	require.False(t, next)

	prev, next = Sequencer{}.Available(p)
	require.False(t, prev)
	require.False(t, next)
}

func TestCurrentOrFirst(t *testing.T) {
	p := panelWith(3)
	require.Same(t, p.Fragments[0], CurrentOrFirst(p))

	Sequencer{Enabled: true}.Reveal(p, 2)
	require.Same(t, p.Fragments[2], CurrentOrFirst(p))

	require.Nil(t, CurrentOrFirst(&deck.Panel{}))
}

func TestShowAllHideAll(t *testing.T) {
	p := panelWith(2)

	ShowAll(p)
	visible, total := Visible(p)
	require.Equal(t, 2, visible)
	require.Equal(t, 2, total)
	require.Equal(t, 1, Cursor(p))

	HideAll(p)
	visible, _ = Visible(p)
	require.Zero(t, visible)
}
