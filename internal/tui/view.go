package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/engine"
	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/ui/styles"
)

// panelChrome is the horizontal space taken by the panel border and padding.
const panelChrome = 6

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var view string
	switch v := m.engine.View(); {
	case v.Paused:
		view = m.pausedView()
	case v.Overview:
		view = m.zones.Scan(m.overviewView(v))
	default:
		view = m.presenterView(v)
	}

	if m.showHelp {
		view = m.helpView.Overlay(view)
	}
	if m.logs.Visible() {
		view = m.logs.Overlay(view)
	}
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	return view
}

func (m Model) pausedView() string {
	msg := styles.PausedStyle.Render("paused") + "\n" + styles.MutedStyle.Render("press b to resume")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

func (m Model) presenterView(v engine.View) string {
	header := m.header(v)
	footer := m.footer(v)

	var notes string
	if m.showNotes && v.Notes != "" {
		notes = styles.NotesStyle.Width(m.width).Render(m.notes.View())
	}

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if notes != "" {
		bodyHeight -= lipgloss.Height(notes)
	}
	panel := m.panelView(v, max(bodyHeight, 3))

	parts := []string{header, panel}
	if notes != "" {
		parts = append(parts, notes)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) header(v engine.View) string {
	title := styles.TitleStyle.Render(ansi.Truncate(m.engine.Deck().Title, m.width/2, "…"))
	number := styles.MutedStyle.Render(v.SlideNumber)
	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(number), 1)
	return title + strings.Repeat(" ", gap) + number
}

func (m Model) panelView(v engine.View, height int) string {
	style := styles.PanelStyle.
		Width(m.panelWidth() - 2).
		Height(height - 2)
	if bg := v.Background; bg != nil && bg.Color != "" {
		style = style.BorderForeground(lipgloss.Color(bg.Color))
	}
	switch v.Tone {
	case deck.ToneLight:
		style = style.Background(styles.ToneLightBg)
	case deck.ToneDark:
		style = style.Background(styles.ToneDarkBg)
	}
	if v.Current == nil {
		return style.Render(styles.MutedStyle.Render("empty deck"))
	}
	return style.Render(m.renderBody(visibleBody(v.Current)))
}

func (m Model) renderBody(src string) string {
	if m.renderer == nil {
		return wordwrap.String(src, m.panelWidth()-panelChrome)
	}
	out, err := m.renderer.Render(src)
	if err != nil {
		log.ErrorErr(log.CatUI, "rendering panel", err)
		return src
	}
	return strings.Trim(out, "\n")
}

func (m Model) footer(v engine.View) string {
	var lines []string
	if m.opts.Config.UI.Progress {
		lines = append(lines, m.progress.ViewAs(v.Progress))
	}

	indicators := []string{routeArrows(v.Routes)}
	if v.AutoSlidePending {
		indicators = append(indicators, styles.MutedStyle.Render(fmt.Sprintf("▶ %s", v.AutoSlide)))
	} else if v.AutoSlidePaused {
		indicators = append(indicators, styles.MutedStyle.Render("⏸ autoslide"))
	}
	if playing := m.playing(); len(playing) > 0 {
		indicators = append(indicators, styles.MutedStyle.Render("♪ "+strings.Join(playing, ", ")))
	}
	if v.Status != "" {
		indicators = append(indicators, styles.MutedStyle.Render(ansi.Truncate(v.Status, m.width/2, "…")))
	}
	lines = append(lines, strings.Join(indicators, "  "))
	lines = append(lines, m.helpBar.View(m.keys))
	return strings.Join(lines, "\n")
}

// playing lists the media sources the player reports as playing.
func (m Model) playing() []string {
	p, ok := m.opts.Player.(interface{ Playing() []string })
	if !ok {
		return nil
	}
	return p.Playing()
}

func (m Model) panelWidth() int {
	return max(m.width, panelChrome+1)
}

func routeArrows(r engine.Routes) string {
	arrow := func(on bool, s string) string {
		if on {
			return s
		}
		return styles.MutedStyle.Render("·")
	}
	return arrow(r.Left, "←") + arrow(r.Up, "↑") + arrow(r.Down, "↓") + arrow(r.Right, "→")
}

// visibleBody drops the lines of fragments not yet revealed. Fragments that
// do not appear in the body are appended once shown.
func visibleBody(p *deck.Panel) string {
	if !p.HasFragments() {
		return p.Body
	}
	lines := strings.Split(p.Body, "\n")
	kept := lines[:0:0]
	for _, line := range lines {
		if !hiddenLine(p.Fragments, line) {
			kept = append(kept, line)
		}
	}
	body := strings.Join(kept, "\n")
	for _, f := range p.Fragments {
		if f.State.Shown() && f.Text != "" && !strings.Contains(plain(p.Body), f.Text) {
			body += "\n- " + f.Text
		}
	}
	return body
}

func hiddenLine(fs []*deck.Fragment, line string) bool {
	for _, f := range fs {
		if !f.State.Shown() && f.Text != "" && strings.Contains(plain(line), f.Text) {
			return true
		}
	}
	return false
}

var emphasis = strings.NewReplacer("**", "", "__", "", "*", "", "_", "", "`", "")

// plain strips inline emphasis so markdown lines compare against fragment text.
func plain(s string) string {
	return emphasis.Replace(s)
}

func notesHeight(height int) int {
	return max(height/4, 3)
}

func wrapNotes(notes string, width int) string {
	if width <= 0 {
		return notes
	}
	return wordwrap.String(notes, width)
}
