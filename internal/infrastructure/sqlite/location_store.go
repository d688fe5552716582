package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/podium/internal/history"
	"github.com/zjrosen/podium/internal/log"
)

// LocationStore implements history.Store for one deck.
type LocationStore struct {
	db        querier
	deckPath  string
	deckTitle string
}

var _ history.Store = (*LocationStore)(nil)

// Load returns the last saved token, or history.ErrNoToken.
func (s *LocationStore) Load(ctx context.Context) (string, error) {
	m, err := findSession(ctx, s.db, s.deckPath)
	if err != nil {
		return "", err
	}
	if m == nil || m.Token == nil {
		return "", history.ErrNoToken
	}
	return *m.Token, nil
}

// Save records token as the deck's current location.
func (s *LocationStore) Save(ctx context.Context, token string) error {
	m, err := ensureSession(ctx, s.db, s.deckPath, s.deckTitle)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET token = ?, deck_title = COALESCE(?, deck_title), updated_at = ? WHERE id = ?`,
		token, nullable(s.deckTitle), time.Now().Unix(), m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	log.Debug(log.CatDB, "saved location", "deck", s.deckPath, "token", token)
	return nil
}
