package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/zjrosen/podium/internal/config"
	"github.com/zjrosen/podium/internal/history"
	"github.com/zjrosen/podium/internal/infrastructure/sqlite"
	"github.com/zjrosen/podium/internal/log"
)

// stores holds the persistence selected by the history config. Bookmarks are
// only available with the sqlite store.
type stores struct {
	Location  history.Store
	Bookmarks *sqlite.BookmarkRepository
	db        *sqlite.DB
}

func (s stores) Close() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		log.ErrorErr(log.CatDB, "closing database", err)
	}
}

func openStores(hc config.HistoryConfig, deckPath, deckTitle string) (stores, error) {
	switch hc.Store {
	case config.StoreNone, "":
		return stores{}, nil
	case config.StoreFile:
		return stores{Location: history.NewFileStore(locationFile(hc.Path, deckPath))}, nil
	case config.StoreSQLite:
		db, err := sqlite.NewDB(hc.Path)
		if err != nil {
			return stores{}, fmt.Errorf("opening history database: %w", err)
		}
		return stores{
			Location:  db.Locations(deckPath, deckTitle),
			Bookmarks: db.Bookmarks(),
			db:        db,
		}, nil
	default:
		return stores{}, fmt.Errorf("unknown history store %q", hc.Store)
	}
}

// locationFile keeps one state file per deck next to the configured history
// path.
func locationFile(historyPath, deckPath string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(deckPath))
	return filepath.Join(filepath.Dir(historyPath), "locations", id.String())
}
