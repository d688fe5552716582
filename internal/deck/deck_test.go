package deck

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testDeck() *Deck {
	return New("talk",
		NewLeaf(&Panel{ID: "intro"}),
		NewStack(&Panel{ID: "ownership"}, &Panel{ID: "borrowing"}, &Panel{}),
		NewLeaf(&Panel{ID: "outro"}),
	)
}

func TestDeck_Counts(t *testing.T) {
	d := testDeck()

	require.Equal(t, 3, d.Len())
	require.Equal(t, 5, d.TotalPanels())
	require.Equal(t, 0, d.Section(0).VerticalLen())
	require.Equal(t, 3, d.Section(1).VerticalLen())
	require.Nil(t, d.Section(3))
	require.Nil(t, d.Panel(1, 3))
	require.Equal(t, "intro", d.Panel(0, 5).ID, "a leaf ignores v")
}

func TestDeck_NilAndEmpty(t *testing.T) {
	var d *Deck
	require.True(t, d.Empty())
	require.Nil(t, d.Panel(0, 0))

	empty := New("empty", NewStack())
	require.False(t, empty.Empty())
	require.Nil(t, empty.Panel(0, 0))
	require.Zero(t, empty.TotalPanels())
}

func TestSection_ResumeV(t *testing.T) {
	s := NewStack(&Panel{}, &Panel{}, &Panel{})
	require.Equal(t, 0, s.ResumeV())

	s.Remember(2)
	require.True(t, s.Visited)
	require.Equal(t, 2, s.ResumeV())

	require.Equal(t, 0, NewLeaf(&Panel{}).ResumeV())
}

func TestSection_StartVOnlyOnFirstEntry(t *testing.T) {
	start := 1
	s := NewStack(&Panel{}, &Panel{}, &Panel{})
	s.StartV = &start
	require.Equal(t, 1, s.ResumeV())

	s.Remember(2)
	require.Equal(t, 2, s.ResumeV())

	d := New("talk", s)
	d.ResetPreviousV()
	require.Equal(t, 1, s.ResumeV())
}

func TestSection_RememberIgnoresLeaf(t *testing.T) {
	s := NewLeaf(&Panel{})
	s.Remember(3)
	require.False(t, s.Visited)
	require.Zero(t, s.PreviousV)
}

func TestDeck_ResetPreviousV(t *testing.T) {
	d := testDeck()
	d.Sections[1].Remember(2)

	d.ResetPreviousV()

	require.Equal(t, 0, d.Sections[1].PreviousV)
	require.False(t, d.Sections[1].Visited)
}

func TestDeck_Locate(t *testing.T) {
	d := testDeck()
	p := d.Panel(1, 1)

	h, v, ok := d.Locate(p)
	require.True(t, ok)
	require.Equal(t, 1, h)
	require.Equal(t, 1, v)

	_, _, ok = d.Locate(&Panel{})
	require.False(t, ok)
}

func TestDeck_Resolve(t *testing.T) {
	d := testDeck()

	h, v, err := d.Resolve("borrowing")
	require.NoError(t, err)
	require.Equal(t, 1, h)
	require.Equal(t, 1, v)

	_, _, err = d.Resolve("borowing")
	var unknown *UnknownIDError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "borrowing", unknown.Suggestion)
	require.Contains(t, err.Error(), `did you mean "borrowing"`)

	_, _, err = d.Resolve("something-else")
	require.True(t, errors.As(err, &unknown))
	require.Empty(t, unknown.Suggestion)
}

func TestDeck_IDsSkipsAnonymousPanels(t *testing.T) {
	require.Equal(t, []string{"intro", "ownership", "borrowing", "outro"}, testDeck().IDs())
}

func TestPanel_AllMediaIncludesFragments(t *testing.T) {
	clip := &Media{Source: "clip.mp4"}
	song := &Media{Kind: Audio, Source: "song.ogg"}
	p := &Panel{Media: []*Media{clip}, Fragments: []*Fragment{{Media: []*Media{song}}}}

	require.Equal(t, []*Media{clip, song}, p.AllMedia())
	require.Nil(t, (*Panel)(nil).AllMedia())
}

func TestMedia_PlayTime(t *testing.T) {
	m := &Media{Duration: 4 * time.Second, PlaybackRate: 2}
	require.Equal(t, 2*time.Second, m.PlayTime())

	m.PlaybackRate = 0
	require.Equal(t, 4*time.Second, m.PlayTime())
}

func TestBackground_HashMatchesContent(t *testing.T) {
	a := &Background{Color: "#222", Image: "bg.png"}
	b := &Background{Color: "#222", Image: "bg.png", State: Past}
	c := &Background{Color: "#333", Image: "bg.png"}

	require.Equal(t, a.Hash(), b.Hash())
	require.NotEqual(t, a.Hash(), c.Hash())
	require.Empty(t, (*Background)(nil).Hash())
}
