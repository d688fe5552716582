package engine

import (
	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/overview"
	"github.com/zjrosen/podium/internal/tracing"
)

// InOverview reports whether the grid projection is shown.
func (e *Engine) InOverview() bool {
	return e.overview
}

// ShowOverview opens the grid projection and holds the advance timer.
func (e *Engine) ShowOverview() {
	if !e.cfg.Overview || e.overview || e.deck.Empty() {
		return
	}
	defer e.begin(tracing.SpanOverview)()
	e.overview = true
	e.timer.Cancel()
	log.Debug(log.CatOverview, "shown", "h", e.h, "v", e.v)
	e.emit(OverviewShown{H: e.h, V: e.v})
}

// HideOverview closes the grid projection and re-cues the advance timer.
func (e *Engine) HideOverview() {
	if !e.overview {
		return
	}
	defer e.begin(tracing.SpanOverview)()
	e.overview = false
	log.Debug(log.CatOverview, "hidden", "h", e.h, "v", e.v)
	e.emit(OverviewHidden{H: e.h, V: e.v})
	e.cue()
}

// ToggleOverview flips the grid projection, or forces it when on is non-nil.
func (e *Engine) ToggleOverview(on *bool) {
	show := !e.overview
	if on != nil {
		show = *on
	}
	if show {
		e.ShowOverview()
	} else {
		e.HideOverview()
	}
}

// Pick closes the grid projection and moves to the picked cell.
func (e *Engine) Pick(h, v int) {
	if !e.overview {
		return
	}
	e.HideOverview()
	e.slide(h, intPtr(v), nil, OriginOverview)
}

// SetViewport records the rendering area used for the overview projection
// and the parallax offset.
func (e *Engine) SetViewport(width, height int) {
	e.viewportW, e.viewportH = width, height
}

func (e *Engine) geometry() overview.Geometry {
	return overview.DefaultGeometry(e.viewportW, e.viewportH)
}

// Placements lays every panel out on the overview grid.
func (e *Engine) Placements() []overview.Placement {
	return overview.Layout(e.deck, e.geometry(), e.cfg.RTL)
}

// Projection centers the overview grid on the present panel.
func (e *Engine) Projection() overview.Projection {
	return overview.Project(e.viewportW, e.viewportH, e.geometry(), e.h, e.v, e.cfg.RTL)
}
