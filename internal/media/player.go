package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/zjrosen/podium/internal/deck"
)

// TerminalPlayer tracks what would be playing. A terminal cannot show video,
// so the renderer draws the playing set as a status line instead. Local
// sources are checked for existence so a missing file surfaces as an error.
type TerminalPlayer struct {
	mu      sync.Mutex
	baseDir string
	playing map[string]*deck.Media
	loaded  map[string]bool
}

// NewTerminalPlayer resolves relative sources against baseDir.
func NewTerminalPlayer(baseDir string) *TerminalPlayer {
	return &TerminalPlayer{
		baseDir: baseDir,
		playing: make(map[string]*deck.Media),
		loaded:  make(map[string]bool),
	}
}

// Play implements Player.
func (p *TerminalPlayer) Play(m *deck.Media) error {
	if isLocal(m.Source) {
		path := m.Source
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.baseDir, path)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("loading %s %s: %w", m.Kind, m.Source, err)
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing[m.Source] = m
	p.loaded[m.Source] = true
	return nil
}

// Pause implements Player.
func (p *TerminalPlayer) Pause(m *deck.Media) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.playing, m.Source)
}

// Unload implements Player.
func (p *TerminalPlayer) Unload(m *deck.Media) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.loaded, m.Source)
}

// Playing returns the sources currently playing, sorted.
func (p *TerminalPlayer) Playing() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.playing))
	for src := range p.playing {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

// Loaded reports whether a source is loaded.
func (p *TerminalPlayer) Loaded(src string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded[src]
}

func isLocal(src string) bool {
	return src != "" && !strings.Contains(src, "://")
}
