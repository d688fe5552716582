package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/podium/internal/clock"
	"github.com/zjrosen/podium/internal/config"
	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/history"
	"github.com/zjrosen/podium/internal/infrastructure/sqlite"
)

func TestOpenStores_None(t *testing.T) {
	s, err := openStores(config.HistoryConfig{Store: config.StoreNone}, "/decks/talk.md", "Talk")
	require.NoError(t, err)
	require.Nil(t, s.Location)
	require.Nil(t, s.Bookmarks)
	s.Close()
}

func TestOpenStores_FileIsPerDeck(t *testing.T) {
	hc := config.HistoryConfig{Store: config.StoreFile, Path: filepath.Join(t.TempDir(), "podium.db")}
	ctx := context.Background()

	a, err := openStores(hc, "/decks/a.md", "A")
	require.NoError(t, err)
	b, err := openStores(hc, "/decks/b.md", "B")
	require.NoError(t, err)

	require.NoError(t, a.Location.Save(ctx, "/2"))
	_, err = b.Location.Load(ctx)
	require.ErrorIs(t, err, history.ErrNoToken)
	require.Equal(t, "/2", loadStartToken(ctx, a.Location))
}

func TestOpenStores_SQLiteHasBookmarks(t *testing.T) {
	hc := config.HistoryConfig{Store: config.StoreSQLite, Path: filepath.Join(t.TempDir(), "podium.db")}

	s, err := openStores(hc, "/decks/talk.md", "Talk")
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NotNil(t, s.Location)
	require.NotNil(t, s.Bookmarks)
	require.Equal(t, "", loadStartToken(context.Background(), s.Location))
}

func TestOpenStores_UnknownKind(t *testing.T) {
	_, err := openStores(config.HistoryConfig{Store: "redis"}, "/decks/talk.md", "Talk")
	require.ErrorContains(t, err, `unknown history store "redis"`)
}

func TestLoadStartToken_NilStore(t *testing.T) {
	require.Equal(t, "", loadStartToken(context.Background(), nil))
}

func TestWriteOutline(t *testing.T) {
	d := deck.New("Talk",
		deck.NewLeaf(&deck.Panel{Title: "Intro"}),
		deck.NewStack(
			&deck.Panel{Title: "Details", Fragments: []*deck.Fragment{{Text: "a"}, {Text: "b"}}},
			&deck.Panel{Title: "More", ID: "more"},
		),
	)
	var buf bytes.Buffer

	require.NoError(t, writeOutline(&buf, d, history.Codec{}, 80))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, "Talk (2 sections, 3 panels)", lines[0])
	require.Equal(t, "/        Intro", lines[1])
	require.Equal(t, "/1       Details [2 fragments]", lines[2])
	require.Equal(t, "  /more    More", lines[3])
}

func TestWriteBookmarks(t *testing.T) {
	now := time.Date(2025, 12, 6, 12, 0, 0, 0, time.UTC)
	list := []sqlite.Bookmark{
		{ID: 3, Token: "/2/1", Label: "Architecture", CreatedAt: now.Add(-2 * time.Hour)},
	}
	var buf bytes.Buffer

	require.NoError(t, writeBookmarks(&buf, list, &clock.Fixed{T: now}))

	out := buf.String()
	require.Contains(t, out, "TOKEN")
	require.Contains(t, out, "/2/1")
	require.Contains(t, out, "Architecture")
	require.Contains(t, out, "2h ago")
}

func TestWriteBookmarks_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBookmarks(&buf, nil, clock.Real{}))
	require.Equal(t, "no bookmarks\n", buf.String())
}
