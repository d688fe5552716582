package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/engine"
	"github.com/zjrosen/podium/internal/overview"
	"github.com/zjrosen/podium/internal/ui/styles"
)

const (
	cellWidth   = 18
	cellPadding = 2
)

func cellID(h, v int) string {
	return fmt.Sprintf("cell-%d-%d", h, v)
}

// overviewView draws every panel as a grid cell. Columns follow the layout's
// X coordinates so right-to-left decks read from the right.
func (m Model) overviewView(v engine.View) string {
	placements := m.engine.Placements()
	if len(placements) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styles.MutedStyle.Render("empty deck"))
	}

	columns := groupColumns(placements)
	rendered := make([]string, 0, len(columns))
	for _, col := range columns {
		cells := make([]string, 0, len(col))
		for _, p := range col {
			cells = append(cells, m.zones.Mark(cellID(p.H, p.V), m.cell(p, v)))
		}
		rendered = append(rendered, lipgloss.JoinVertical(lipgloss.Left, cells...))
	}

	grid := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	header := styles.TitleStyle.Render("Overview") + "  " + styles.MutedStyle.Render(v.SlideNumber)
	return lipgloss.JoinVertical(lipgloss.Left, header, grid)
}

func (m Model) cell(p overview.Placement, v engine.View) string {
	style := styles.CellStyle
	switch p.Panel.State {
	case deck.Present:
		style = styles.CellPresentStyle
	case deck.Past:
		style = styles.CellPastStyle
	}
	if p.H == v.H && p.V == v.V {
		style = styles.CellPresentStyle
	}

	label := fmt.Sprintf("%d.%d", p.H+1, p.V+1)
	title := "…"
	if m.engine.Loaded(p.H, p.V) {
		title = cellTitle(p.Panel, cellWidth-cellPadding)
	}
	return style.Render(runewidth.FillRight(label, cellWidth-cellPadding) + "\n" + runewidth.FillRight(title, cellWidth-cellPadding))
}

// groupColumns buckets placements by X and orders each column by Y.
func groupColumns(ps []overview.Placement) [][]overview.Placement {
	byX := map[int][]overview.Placement{}
	var xs []int
	for _, p := range ps {
		if _, ok := byX[p.X]; !ok {
			xs = append(xs, p.X)
		}
		byX[p.X] = append(byX[p.X], p)
	}
	sort.Ints(xs)
	out := make([][]overview.Placement, 0, len(xs))
	for _, x := range xs {
		col := byX[x]
		sort.Slice(col, func(i, j int) bool { return col[i].Y < col[j].Y })
		out = append(out, col)
	}
	return out
}

// cellTitle truncates the panel title to width cells without splitting
// grapheme clusters.
func cellTitle(p *deck.Panel, width int) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "untitled"
	}
	if runewidth.StringWidth(title) <= width {
		return title
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(title)
	for g.Next() {
		w := runewidth.StringWidth(g.Str())
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String() + "…"
}
