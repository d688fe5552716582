package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// sessionModel is a row of the sessions table. One session exists per deck
// path; times are Unix seconds.
type sessionModel struct {
	ID        string
	DeckPath  string
	DeckTitle *string // nullable
	Token     *string // nullable
	CreatedAt int64
	UpdatedAt int64
}

// bookmarkModel is a row of the bookmarks table.
type bookmarkModel struct {
	ID        int64
	SessionID string
	Token     string
	Label     *string // nullable
	CreatedAt int64
}

// Bookmark is a saved location in a deck.
type Bookmark struct {
	ID        int64
	Token     string
	Label     string
	CreatedAt time.Time
}

func (m *bookmarkModel) toBookmark() Bookmark {
	b := Bookmark{ID: m.ID, Token: m.Token, CreatedAt: time.Unix(m.CreatedAt, 0)}
	if m.Label != nil {
		b.Label = *m.Label
	}
	return b
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// findSession returns the session for deckPath or nil when none exists.
func findSession(ctx context.Context, q querier, deckPath string) (*sessionModel, error) {
	var m sessionModel
	err := q.QueryRowContext(ctx,
		`SELECT id, deck_path, deck_title, token, created_at, updated_at FROM sessions WHERE deck_path = ?`,
		deckPath,
	).Scan(&m.ID, &m.DeckPath, &m.DeckTitle, &m.Token, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &m, nil
}

// ensureSession returns the session for deckPath, inserting one with a fresh
// id when missing.
func ensureSession(ctx context.Context, q querier, deckPath, title string) (*sessionModel, error) {
	m, err := findSession(ctx, q, deckPath)
	if err != nil || m != nil {
		return m, err
	}

	now := time.Now().Unix()
	m = &sessionModel{
		ID:        uuid.NewString(),
		DeckPath:  deckPath,
		DeckTitle: nullable(title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO sessions (id, deck_path, deck_title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.DeckPath, m.DeckTitle, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return m, nil
}
