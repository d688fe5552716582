package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/podium/internal/deck"
)

type recordingPlayer struct {
	played   []string
	paused   []string
	unloaded []string
	fail     map[string]error
}

func (r *recordingPlayer) Play(m *deck.Media) error {
	if err := r.fail[m.Source]; err != nil {
		return err
	}
	r.played = append(r.played, m.Source)
	return nil
}

func (r *recordingPlayer) Pause(m *deck.Media)  { r.paused = append(r.paused, m.Source) }
func (r *recordingPlayer) Unload(m *deck.Media) { r.unloaded = append(r.unloaded, m.Source) }

func boolPtr(b bool) *bool { return &b }

func TestStartPanel_PerElementOptIn(t *testing.T) {
	player := &recordingPlayer{}
	m := NewManager(player, nil, nil)
	p := &deck.Panel{Media: []*deck.Media{
		{Source: "auto.mp4", Autoplay: true},
		{Source: "manual.mp4"},
		{Kind: deck.Frame, Source: "https://example.com/embed"},
	}}

	m.StartPanel(p)

	require.Equal(t, []string{"auto.mp4", "https://example.com/embed"}, player.played)
}

func TestStartPanel_GlobalPolicyWins(t *testing.T) {
	p := &deck.Panel{Media: []*deck.Media{{Source: "auto.mp4", Autoplay: true}, {Source: "manual.mp4"}}}

	on := &recordingPlayer{}
	NewManager(on, boolPtr(true), nil).StartPanel(p)
	require.Equal(t, []string{"auto.mp4", "manual.mp4"}, on.played)

	off := &recordingPlayer{}
	NewManager(off, boolPtr(false), nil).StartPanel(p)
	require.Empty(t, off.played)
}

func TestStartPanel_SkipsHiddenFragments(t *testing.T) {
	player := &recordingPlayer{}
	m := NewManager(player, nil, nil)
	hidden := &deck.Fragment{Media: []*deck.Media{{Source: "later.mp4", Autoplay: true}}}
	shown := &deck.Fragment{State: deck.Visible, Media: []*deck.Media{{Source: "now.mp4", Autoplay: true}}}
	p := &deck.Panel{Fragments: []*deck.Fragment{shown, hidden}}

	m.StartPanel(p)
	require.Equal(t, []string{"now.mp4"}, player.played)

	m.StartFragments([]*deck.Fragment{hidden})
	require.Equal(t, []string{"now.mp4", "later.mp4"}, player.played)
}

func TestStopPanel_IgnoreAndUnload(t *testing.T) {
	player := &recordingPlayer{}
	m := NewManager(player, nil, nil)
	p := &deck.Panel{Media: []*deck.Media{
		{Source: "keep.mp3", Ignore: true},
		{Source: "lazy.mp4", Lazy: true},
		{Source: "plain.mp4"},
	}}

	m.StopPanel(p, false)
	require.Equal(t, []string{"lazy.mp4", "plain.mp4"}, player.paused)
	require.Empty(t, player.unloaded)

	m.StopPanel(p, true)
	require.Equal(t, []string{"lazy.mp4"}, player.unloaded)
}

func TestBackground_AutoplaysByMembership(t *testing.T) {
	player := &recordingPlayer{}
	m := NewManager(player, nil, nil)
	bg := &deck.Background{Video: &deck.Media{Source: "loop.mp4"}}

	m.StartBackground(bg)
	m.StopBackground(bg)
	m.StartBackground(&deck.Background{Color: "#000"})

	require.Equal(t, []string{"loop.mp4"}, player.played)
	require.Equal(t, []string{"loop.mp4"}, player.paused)

	off := &recordingPlayer{}
	NewManager(off, boolPtr(false), nil).StartBackground(bg)
	require.Empty(t, off.played)
}

func TestStart_ReportsLoadErrors(t *testing.T) {
	boom := errors.New("no codec")
	player := &recordingPlayer{fail: map[string]error{"broken.mp4": boom}}
	var gotMedia *deck.Media
	var gotErr error
	m := NewManager(player, boolPtr(true), func(item *deck.Media, err error) {
		gotMedia, gotErr = item, err
	})
	broken := &deck.Media{Source: "broken.mp4"}

	m.StartPanel(&deck.Panel{Media: []*deck.Media{broken, {Source: "ok.mp4"}}})

	require.Same(t, broken, gotMedia)
	require.ErrorIs(t, gotErr, boom)
	require.Equal(t, []string{"ok.mp4"}, player.played)
}

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager
	m.StartPanel(&deck.Panel{})
	m.StopPanel(&deck.Panel{}, true)
	m.StartBackground(&deck.Background{})
	m.StartFragments(nil)
}

func TestTerminalPlayer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("x"), 0o600))
	p := NewTerminalPlayer(dir)

	require.NoError(t, p.Play(&deck.Media{Source: "clip.mp4"}))
	require.NoError(t, p.Play(&deck.Media{Source: "https://example.com/a.mp4"}))
	require.Error(t, p.Play(&deck.Media{Source: "missing.mp4"}))
	require.Equal(t, []string{"clip.mp4", "https://example.com/a.mp4"}, p.Playing())

	p.Pause(&deck.Media{Source: "clip.mp4"})
	require.Equal(t, []string{"https://example.com/a.mp4"}, p.Playing())
	require.True(t, p.Loaded("clip.mp4"))

	p.Unload(&deck.Media{Source: "clip.mp4"})
	require.False(t, p.Loaded("clip.mp4"))
}
