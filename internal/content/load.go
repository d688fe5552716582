package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/log"
)

// Load reads a deck file. Files ending in .yaml or .yml are structured
// decks; anything else is split as markdown.
func Load(path string, opts MarkdownOptions) (*deck.Deck, error) {
	src, err := os.ReadFile(path) //nolint:gosec // G304: deck path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}

	var d *deck.Deck
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		d, err = ParseYAML(src)
	default:
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		d, err = ParseMarkdown(src, "", opts)
		if err == nil && d.Title == "" {
			d.Title = title
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	log.Info(log.CatDeck, "loaded", "path", path, "sections", d.Len(), "panels", d.TotalPanels())
	return d, nil
}
