// Package markdown renders panel bodies to styled terminal text.
package markdown

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/zjrosen/podium/internal/cachemanager"
)

// noMarginStyle removes document margins so panels align with the frame.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Styles accepted by New. "auto" detects the terminal background.
var Styles = []string{"auto", styles.DarkStyle, styles.LightStyle, styles.NoTTYStyle}

// Renderer wraps glamour with a render cache keyed on style, width and source.
type Renderer struct {
	renderer *glamour.TermRenderer
	style    string
	width    int
	cache    *cachemanager.ReadThrough[string, string]
}

// New creates a renderer. cache may be nil to render every call.
func New(style string, width int, cache cachemanager.Cache[string]) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", "auto":
		style = "auto"
		opts = append(opts, glamour.WithAutoStyle())
	case styles.DarkStyle, styles.LightStyle, styles.NoTTYStyle:
		opts = append(opts, glamour.WithStandardStyle(style))
	default:
		return nil, fmt.Errorf("unknown markdown style %q", style)
	}
	opts = append(opts, glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)))

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}

	r := &Renderer{renderer: tr, style: style, width: width}
	r.cache = cachemanager.NewReadThrough[string, string](cache, tr.Render, cachemanager.DefaultExpiration, cache == nil)
	return r, nil
}

func (r *Renderer) Width() int { return r.width }

func (r *Renderer) Style() string { return r.style }

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(src string) (string, error) {
	return r.cache.Get(cachemanager.Key(r.style, strconv.Itoa(r.width), src), src)
}

// Invalidate drops cached renderings, e.g. after the deck reloads.
func (r *Renderer) Invalidate() {
	r.cache.Invalidate()
}
