package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zjrosen/podium/internal/log"
)

// ErrNoToken is returned by Load when nothing has been stored yet.
var ErrNoToken = errors.New("no stored location")

// Store persists the latest location token.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
}

// MemoryStore keeps the token in memory and counts writes.
type MemoryStore struct {
	mu     sync.Mutex
	token  string
	set    bool
	writes int
}

// Load implements Store.
func (m *MemoryStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", ErrNoToken
	}
	return m.token, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = token, true
	m.writes++
	return nil
}

// Writes returns how many times Save was called.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FileStore keeps the token in a small state file.
type FileStore struct {
	path string
}

// NewFileStore stores the token at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load implements Store.
func (s *FileStore) Load(context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("reading location file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save implements Store. The file is replaced atomically.
func (s *FileStore) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating location dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing location file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing location file: %w", err)
	}
	log.Debug(log.CatHistory, "saved location", "path", s.path, "token", token)
	return nil
}
