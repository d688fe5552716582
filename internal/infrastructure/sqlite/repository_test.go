package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/podium/internal/history"
)

func TestLocationStore_EmptyLoad(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Locations("/talks/a.md", "A").Load(t.Context())
	require.ErrorIs(t, err, history.ErrNoToken)
}

func TestLocationStore_SaveOverwrites(t *testing.T) {
	db := setupTestDB(t)
	store := db.Locations("/talks/a.md", "A")

	require.NoError(t, store.Save(t.Context(), "/1"))
	require.NoError(t, store.Save(t.Context(), "/closing"))

	token, err := store.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, "/closing", token)

	var sessions int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&sessions))
	require.Equal(t, 1, sessions)
}

func TestLocationStore_DecksAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	a := db.Locations("/talks/a.md", "A")
	b := db.Locations("/talks/b.md", "B")

	require.NoError(t, a.Save(t.Context(), "/1"))
	require.NoError(t, b.Save(t.Context(), "/3/1"))

	got, err := a.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, "/1", got)
	got, err = b.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, "/3/1", got)
}

func TestLocationStore_WorksWithWriter(t *testing.T) {
	db := setupTestDB(t)
	store := db.Locations("/talks/a.md", "A")
	w := history.NewWriter(store, nil)

	w.Write(t.Context(), "/2")

	got, err := store.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, "/2", got)
}

func TestBookmarks_AddListDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := db.Bookmarks()

	first, err := repo.Add(t.Context(), "/talks/a.md", "/1", "demo")
	require.NoError(t, err)
	require.Positive(t, first.ID)
	require.Equal(t, "demo", first.Label)
	require.WithinDuration(t, time.Now(), first.CreatedAt, 2*time.Second)

	_, err = repo.Add(t.Context(), "/talks/a.md", "/closing", "")
	require.NoError(t, err)
	_, err = repo.Add(t.Context(), "/talks/b.md", "/4", "other deck")
	require.NoError(t, err)

	list, err := repo.List(t.Context(), "/talks/a.md")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "/1", list[0].Token)
	require.Equal(t, "/closing", list[1].Token)
	require.Empty(t, list[1].Label)

	require.NoError(t, repo.Delete(t.Context(), first.ID))
	list, err = repo.List(t.Context(), "/talks/a.md")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(t.Context(), 9999))
}

func TestBookmarks_SameTokenUpdatesLabel(t *testing.T) {
	db := setupTestDB(t)
	repo := db.Bookmarks()

	a, err := repo.Add(t.Context(), "/talks/a.md", "/1", "draft")
	require.NoError(t, err)
	b, err := repo.Add(t.Context(), "/talks/a.md", "/1", "final")
	require.NoError(t, err)

	require.Equal(t, a.ID, b.ID)
	list, err := repo.List(t.Context(), "/talks/a.md")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "final", list[0].Label)
}

func TestBookmarks_SharesSessionWithLocation(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Locations("/talks/a.md", "A").Save(t.Context(), "/2"))

	_, err := db.Bookmarks().Add(t.Context(), "/talks/a.md", "/2", "")
	require.NoError(t, err)

	var sessions int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&sessions))
	require.Equal(t, 1, sessions)
}

func TestLocationStore_LastSaveWins(t *testing.T) {
	db := setupTestDB(t)
	rapid.Check(t, func(rt *rapid.T) {
		path := rapid.StringMatching(`/talks/[a-z]{1,8}\.md`).Draw(rt, "path")
		tokens := rapid.SliceOfN(rapid.StringMatching(`/[0-9]{1,2}(/[0-9])?`), 1, 5).Draw(rt, "tokens")
		store := db.Locations(path, "")

		for _, tok := range tokens {
			require.NoError(rt, store.Save(t.Context(), tok))
		}

		got, err := store.Load(t.Context())
		require.NoError(rt, err)
		require.Equal(rt, tokens[len(tokens)-1], got)
	})
}
