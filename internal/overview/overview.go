// Package overview computes the grid projection that lays the whole deck
// out at once.
package overview

import (
	"github.com/zjrosen/podium/internal/deck"
)

const (
	// Margin is the default gap between grid cells, in layout units.
	Margin = 70
	// ViewDistance replaces the configured view distance while the grid is
	// shown.
	ViewDistance = 10
	// minScaledSize is the smallest projected cell edge.
	minScaledSize = 150
)

// Geometry is the size of one panel and the gap between grid cells.
type Geometry struct {
	Width, Height int
	Margin        int
}

// DefaultGeometry returns a geometry with the standard margin.
func DefaultGeometry(width, height int) Geometry {
	return Geometry{Width: width, Height: height, Margin: Margin}
}

// Step returns the offset between adjacent cells. The horizontal step is
// negative under right-to-left layout.
func (g Geometry) Step(rtl bool) (dx, dy int) {
	dx = g.Width + g.Margin
	if rtl {
		dx = -dx
	}
	return dx, g.Height + g.Margin
}

// Placement is the grid position of one panel.
type Placement struct {
	H, V  int
	X, Y  int
	Panel *deck.Panel
}

// Layout places every panel of d. A leaf sits in row 0 of its column.
func Layout(d *deck.Deck, g Geometry, rtl bool) []Placement {
	dx, dy := g.Step(rtl)
	var out []Placement
	d.Walk(func(h, v int, p *deck.Panel) {
		out = append(out, Placement{H: h, V: v, X: h * dx, Y: v * dy, Panel: p})
	})
	return out
}

// Projection scales the grid and translates it so (h, v) is centered.
type Projection struct {
	Scale      float64
	TranslateX int
	TranslateY int
}

// Project computes the projection for a viewport of the given size.
func Project(viewportW, viewportH int, g Geometry, h, v int, rtl bool) Projection {
	dx, dy := g.Step(rtl)
	p := Projection{Scale: 1, TranslateX: -h * dx, TranslateY: -v * dy}
	vmin := float64(min(viewportW, viewportH))
	if vmin > 0 {
		p.Scale = max(vmin/5, minScaledSize) / vmin
	}
	return p
}
