package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// BookmarkRepository stores named locations per deck.
type BookmarkRepository struct {
	db *sql.DB
}

// Add bookmarks token in the deck at deckPath. Adding the same token again
// updates its label.
func (r *BookmarkRepository) Add(ctx context.Context, deckPath, token, label string) (Bookmark, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Bookmark{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	session, err := ensureSession(ctx, tx, deckPath, "")
	if err != nil {
		return Bookmark{}, err
	}

	m := bookmarkModel{SessionID: session.ID, Token: token, Label: nullable(label), CreatedAt: time.Now().Unix()}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO bookmarks (session_id, token, label, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, token) DO UPDATE SET label = excluded.label
		RETURNING id, created_at`,
		m.SessionID, m.Token, m.Label, m.CreatedAt,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return Bookmark{}, fmt.Errorf("failed to insert bookmark: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Bookmark{}, fmt.Errorf("failed to commit bookmark: %w", err)
	}
	return m.toBookmark(), nil
}

// List returns the deck's bookmarks, oldest first.
func (r *BookmarkRepository) List(ctx context.Context, deckPath string) ([]Bookmark, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.session_id, b.token, b.label, b.created_at
		FROM bookmarks b JOIN sessions s ON s.id = b.session_id
		WHERE s.deck_path = ?
		ORDER BY b.created_at, b.id`,
		deckPath,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Bookmark
	for rows.Next() {
		var m bookmarkModel
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Token, &m.Label, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		out = append(out, m.toBookmark())
	}
	return out, rows.Err()
}

// Delete removes a bookmark by id. Deleting a missing id is not an error.
func (r *BookmarkRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}
