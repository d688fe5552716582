// Package overlay draws one rendered block on top of another without
// clearing the screen underneath.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position is where the foreground is anchored.
type Position int

const (
	Center Position = iota
	Top
	Bottom
	// BottomRight anchors to the lower right corner.
	BottomRight
)

// Config sizes the canvas and anchors the foreground.
type Config struct {
	Width, Height int
	Position      Position
	// PadX and PadY keep the foreground away from the anchored edges.
	PadX, PadY int
}

// Place renders fg over bg. Both may contain ANSI styling.
func Place(cfg Config, fg, bg string) string {
	rows := strings.Split(bg, "\n")
	for len(rows) < cfg.Height {
		rows = append(rows, strings.Repeat(" ", cfg.Width))
	}

	fgRows := strings.Split(fg, "\n")
	x, y := origin(cfg, lipgloss.Width(fg), len(fgRows))

	for i, line := range fgRows {
		row := y + i
		if row >= len(rows) {
			break
		}
		rows[row] = splice(rows[row], line, x)
	}
	return strings.Join(rows, "\n")
}

// splice replaces the cells of base starting at column x with line.
func splice(base, line string, x int) string {
	left := ansi.Truncate(base, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	end := x + ansi.StringWidth(line)
	var right string
	if end < ansi.StringWidth(base) {
		right = ansi.TruncateLeft(base, end, "")
	}
	return left + line + right
}

func origin(cfg Config, w, h int) (x, y int) {
	x = (cfg.Width - w) / 2
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - h - cfg.PadY
	case BottomRight:
		x = cfg.Width - w - cfg.PadX
		y = cfg.Height - h - cfg.PadY
	default:
		y = (cfg.Height - h) / 2
	}
	return max(x, 0), max(y, 0)
}
