package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/pubsub"
	"github.com/zjrosen/podium/internal/watcher"
)

func startWatcher(t *testing.T, path string) <-chan pubsub.Event[watcher.Event] {
	t.Helper()
	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	events := w.Broker().Subscribe(t.Context())
	require.NoError(t, w.Start())
	return events
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.md")
	require.NoError(t, os.WriteFile(path, []byte("# Intro"), 0644))

	onChange := startWatcher(t, path)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("# Intro %d", i)), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-onChange:
		require.Equal(t, watcher.DeckChanged, ev.Payload.Type)
		require.Equal(t, path, ev.Payload.Path)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.md")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("# Intro"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("initial"), 0644))

	onChange := startWatcher(t, path)

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0644))

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_AtomicRenameSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.md")
	require.NoError(t, os.WriteFile(path, []byte("# Intro"), 0644))

	onChange := startWatcher(t, path)

	tmp := filepath.Join(dir, ".talk.md.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("# Intro again"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification after rename")
	}
}

func TestWatcher_IgnoresUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.md")
	require.NoError(t, os.WriteFile(path, []byte("# Intro"), 0644))

	onChange := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("# Intro"), 0644))

	select {
	case <-onChange:
		t.Fatal("should not notify when the bytes are unchanged")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.md")
	require.NoError(t, os.WriteFile(path, []byte("# Intro"), 0644))

	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Start())

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	require.Zero(t, w.Broker().SubscriberCount())
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/talks/talk.md")

	require.Equal(t, "/talks/talk.md", cfg.Path)
	require.Equal(t, 250*time.Millisecond, cfg.DebounceDur)
}

func TestChanges(t *testing.T) {
	before := deck.New("talk",
		deck.NewLeaf(&deck.Panel{Title: "Intro", Body: "hello"}),
		deck.NewStack(&deck.Panel{Title: "A"}, &deck.Panel{Title: "B"}),
	)
	after := deck.New("talk",
		deck.NewLeaf(&deck.Panel{Title: "Intro", Body: "hello world"}),
		deck.NewStack(&deck.Panel{Title: "A"}),
		deck.NewLeaf(&deck.Panel{Title: "Closing"}),
	)

	changes := watcher.Changes(before, after)

	require.Equal(t, []watcher.PanelChange{
		{H: 0, V: 0, Kind: "edited", Inserted: 6},
		{H: 2, V: 0, Kind: "added"},
		{H: 1, V: 1, Kind: "removed"},
	}, changes)
	require.Equal(t, "0/0 edited (+6 -0)", changes[0].String())
	require.Equal(t, "1/1 removed", changes[2].String())
}

func TestChanges_Identical(t *testing.T) {
	d := deck.New("talk", deck.NewLeaf(&deck.Panel{Title: "Intro"}))
	require.Empty(t, watcher.Changes(d, d))
}
