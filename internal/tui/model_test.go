package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/podium/internal/config"
	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/infrastructure/sqlite"
	"github.com/zjrosen/podium/internal/intent"
	"github.com/zjrosen/podium/internal/pubsub"
	"github.com/zjrosen/podium/internal/remote"
	"github.com/zjrosen/podium/internal/watcher"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func talk() *deck.Deck {
	return deck.New("Talk",
		deck.NewLeaf(&deck.Panel{Title: "One", Body: "# One"}),
		deck.NewStack(
			&deck.Panel{Title: "Two", Body: "# Two"},
			&deck.Panel{Title: "Two down", Body: "# Two down"},
		),
		deck.NewLeaf(&deck.Panel{Title: "Three", Body: "# Three"}),
	)
}

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Deck == nil {
		opts.Deck = talk()
	}
	if opts.Config.UI.SlideNumber == "" {
		opts.Config = config.Defaults()
	}
	m := New(opts)
	t.Cleanup(m.cancel)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_StartsAtHomeAndPublishesStatus(t *testing.T) {
	box := &remote.StatusBox{}
	m := newModel(t, Options{Status: box})

	h, v := m.engine.Indices()
	require.Equal(t, 0, h)
	require.Equal(t, 0, v)

	st, ok := box.Load()
	require.True(t, ok)
	require.Equal(t, "Talk", st.Title)
	require.True(t, st.First)
	require.False(t, st.Last)
}

func TestUpdate_KeysDispatchIntents(t *testing.T) {
	m := newModel(t, Options{})

	m = update(t, m, runes("n"))
	h, _ := m.engine.Indices()
	require.Equal(t, 1, h)

	m = update(t, m, runes("j"))
	h, v := m.engine.Indices()
	require.Equal(t, 1, h)
	require.Equal(t, 1, v)

	m = update(t, m, runes("G"))
	h, _ = m.engine.Indices()
	require.Equal(t, 2, h)
}

func TestUpdate_RemoteIntentIsDispatched(t *testing.T) {
	box := &remote.StatusBox{}
	m := newModel(t, Options{Status: box})

	m = update(t, m, intent.To(2, nil, nil).WithOrigin(remote.Origin))

	h, _ := m.engine.Indices()
	require.Equal(t, 2, h)
	st, _ := box.Load()
	require.Equal(t, 2, st.H)
	require.True(t, st.Last)
}

func TestUpdate_OverviewPickOpensSelectedPanel(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = update(t, m, runes("o"))
	require.True(t, m.engine.InOverview())
	require.Contains(t, m.View(), "Overview")

	m = update(t, m, runes("l"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, m.engine.InOverview())
	h, _ := m.engine.Indices()
	require.Equal(t, 1, h)
}

func TestUpdate_PauseShowsPausedScreen(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = update(t, m, runes("b"))

	require.Contains(t, m.View(), "paused")
}

func TestUpdate_HelpSwallowsNavigation(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = update(t, m, runes("?"))
	require.True(t, m.showHelp)
	m = update(t, m, runes("n"))
	h, _ := m.engine.Indices()
	require.Equal(t, 0, h)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.showHelp)
}

func TestUpdate_TimerMessageRunsCallback(t *testing.T) {
	m := newModel(t, Options{})
	ran := false

	m = update(t, m, timerMsg{task: &task{fn: func() { ran = true }}})

	require.True(t, ran)
}

func TestToggleNotes_PersistsSetting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := newModel(t, Options{ConfigPath: path})
	require.False(t, m.showNotes)

	m = update(t, m, runes("s"))

	require.True(t, m.showNotes)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "show_notes: true")
}

type mockBookmarks struct {
	mock.Mock
}

func (b *mockBookmarks) Add(ctx context.Context, deckPath, token, label string) (sqlite.Bookmark, error) {
	args := b.Called(ctx, deckPath, token, label)
	return args.Get(0).(sqlite.Bookmark), args.Error(1)
}

func TestBookmark_SavesCurrentLocation(t *testing.T) {
	store := &mockBookmarks{}
	m := newModel(t, Options{DeckPath: "talk.md", Bookmarks: store})
	m = update(t, m, runes("n"))
	token := m.engine.Token()

	store.On("Add", mock.Anything, "talk.md", token, "Two").
		Return(sqlite.Bookmark{ID: 1, Token: token, Label: "Two"}, nil).Once()

	m = update(t, m, runes("m"))

	store.AssertExpectations(t)
	require.True(t, m.toaster.Visible())
}

func TestBookmark_DisabledWithoutStore(t *testing.T) {
	m := newModel(t, Options{})
	require.False(t, m.keys.Bookmark.Enabled())

	m = update(t, m, runes("m"))
	require.False(t, m.toaster.Visible())
}

func reloadEvent() pubsub.Event[watcher.Event] {
	return pubsub.Event[watcher.Event]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.Event{Type: watcher.DeckChanged, Path: "talk.md"},
	}
}

func TestReload_SyncsDeckAndKeepsPosition(t *testing.T) {
	updated := talk()
	updated.Sections[2].Panel(0).Title = "Three, revised"

	m := newModel(t, Options{
		Reload: pubsub.NewBroker[watcher.Event](),
		Loader: func() (*deck.Deck, error) { return updated, nil },
	})
	m = update(t, m, runes("G"))

	m = update(t, m, reloadEvent())

	require.Same(t, updated, m.engine.Deck())
	h, _ := m.engine.Indices()
	require.Equal(t, 2, h)
	require.True(t, m.toaster.Visible())
}

func TestReload_ErrorKeepsDeck(t *testing.T) {
	original := talk()
	m := newModel(t, Options{
		Deck:   original,
		Reload: pubsub.NewBroker[watcher.Event](),
		Loader: func() (*deck.Deck, error) { return nil, errors.New("bad yaml") },
	})

	m = update(t, m, reloadEvent())

	require.Same(t, original, m.engine.Deck())
	require.Contains(t, m.toaster.View(), "reload failed")
}

func TestView_PresenterShowsTitleAndNumber(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()

	require.Contains(t, view, "Talk")
	require.Contains(t, view, "One")
	require.Contains(t, view, "1")
}

func TestWindowSize_CappedByConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.UI.Width = 60
	m := newModel(t, Options{Config: cfg})

	m = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 50})

	require.Equal(t, 60, m.width)
	require.Equal(t, 50, m.height)
	for _, line := range strings.Split(m.View(), "\n") {
		require.LessOrEqual(t, lipgloss.Width(line), 60)
	}
}

func TestProgram_RendersAndQuits(t *testing.T) {
	tm := teatest.NewTestModel(t, newModel(t, Options{}), teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return strings.Contains(string(b), "Talk")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(runes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
