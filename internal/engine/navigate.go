package engine

import (
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/fragments"
	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/tracing"
)

// Target addresses a GoTo. A nil V resumes the stack where it was left; a
// nil F leaves fragments as the layout puts them.
type Target struct {
	H      int
	V      *int
	F      *int
	Origin string
}

// Routes are the directions navigation can currently move in.
type Routes struct {
	Left, Right, Up, Down bool
}

// GoTo moves to t. Out-of-range indices are clamped, or wrapped when looping.
func (e *Engine) GoTo(t Target) {
	defer e.begin(tracing.SpanGoTo,
		attribute.Int(tracing.AttrH, t.H),
		attribute.String(tracing.AttrOrigin, t.Origin))()
	e.slide(t.H, t.V, t.F, t.Origin)
}

// slide is the single transition entry point.
func (e *Engine) slide(h int, v, f *int, origin string) {
	if e.deck.Empty() {
		return
	}
	previous := e.current

	target := e.deck.Section(e.wrapIndex(h, e.deck.Len()))
	vv := e.v
	switch {
	case v != nil:
		vv = *v
	case !e.overview:
		vv = target.ResumeV()
	}

	if previous != nil {
		e.deck.Section(e.h).Remember(e.v)
	}

	statesBefore := e.states
	hBefore, vBefore := e.h, e.v
	// Nothing is present on first layout or after Sync swapped the deck.
	fresh := previous == nil
	e.started = true

	e.h = e.layoutHorizontal(h)
	e.v = e.layoutVertical(vv)
	e.current = e.deck.Panel(e.h, e.v)
	e.states = nil
	if e.current != nil {
		e.states = append(e.states, e.current.States...)
		e.current.State = deck.Present
	}

	if f != nil {
		e.revealFragment(*f)
	}

	changed := e.h != hBefore || e.v != vBefore
	if !changed {
		previous = nil
	}
	e.previous = previous

	if previous != nil && previous != e.current && e.h == 0 && e.v == 0 {
		e.deck.ResetPreviousV()
	}

	e.diffStates(statesBefore)

	if changed {
		log.Debug(log.CatNav, "slide changed", "h", e.h, "v", e.v, "from_h", hBefore, "from_v", vBefore, "origin", origin)
		e.emit(SlideChanged{
			H: e.h, V: e.v,
			PreviousH: hBefore, PreviousV: vBefore,
			Previous: previous, Current: e.current,
			Origin: origin,
		})
	}
	if changed || fresh {
		e.media.StopPanel(previous, true)
		e.media.StartPanel(e.current)
	}

	e.status = statusText(e.current)
	e.updateBackground()
	// Re-apply the cursor so the last revealed group is current.
	e.seq.Reveal(e.current, fragments.Cursor(e.current))
	e.writeLocation()
	e.cue()
}

// layoutHorizontal assigns past/present/future to every section and returns
// the normalized index.
func (e *Engine) layoutHorizontal(h int) int {
	n := e.deck.Len()
	h = e.wrapIndex(h, n)
	for i, s := range e.deck.Sections {
		switch {
		case i < h:
			s.State = e.horizontal(deck.Past)
			if e.cfg.Fragments {
				for _, p := range s.Panels() {
					fragments.ShowAll(p)
				}
			}
		case i > h:
			s.State = e.horizontal(deck.Future)
			if e.cfg.Fragments {
				for _, p := range s.Panels() {
					fragments.HideAll(p)
				}
			}
		default:
			s.State = deck.Present
		}
		if s.Leaf != nil {
			s.Leaf.State = s.State
		}
	}
	return h
}

// layoutVertical assigns states inside the present stack. Vertical order is
// never mirrored.
func (e *Engine) layoutVertical(v int) int {
	s := e.deck.Section(e.h)
	n := s.VerticalLen()
	if n == 0 {
		return 0
	}
	v = e.wrapIndex(v, n)
	for i, p := range s.Subsections {
		switch {
		case i < v:
			p.State = deck.Past
			if e.cfg.Fragments {
				fragments.ShowAll(p)
			}
		case i > v:
			p.State = deck.Future
			if e.cfg.Fragments {
				fragments.HideAll(p)
			}
		default:
			p.State = deck.Present
		}
	}
	return v
}

func (e *Engine) horizontal(s deck.State) deck.State {
	if !e.cfg.RTL {
		return s
	}
	switch s {
	case deck.Past:
		return deck.Future
	case deck.Future:
		return deck.Past
	}
	return s
}

// wrapIndex wraps i into [0, n) when looping, then clamps.
func (e *Engine) wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if e.cfg.Loop {
		i %= n
		if i < 0 {
			i += n
		}
	}
	return max(min(i, n-1), 0)
}

func (e *Engine) diffStates(before []string) {
	for _, tag := range e.states {
		if !slices.Contains(before, tag) {
			e.emit(StateEnter{Tag: tag})
		}
	}
	for _, tag := range before {
		if !slices.Contains(e.states, tag) {
			e.emit(StateLeave{Tag: tag})
		}
	}
}

// revealFragment applies an absolute fragment cursor on the present panel.
func (e *Engine) revealFragment(index int) bool {
	return e.applyFragments(e.seq.Reveal(e.current, index))
}

// stepFragment moves the cursor by offset and reports whether anything
// changed.
func (e *Engine) stepFragment(offset int) bool {
	c, moved := e.seq.Step(e.current, offset)
	if !moved {
		return false
	}
	e.applyFragments(c)
	return true
}

func (e *Engine) applyFragments(c fragments.Change) bool {
	if c.Empty() {
		return false
	}
	if len(c.Hidden) > 0 {
		e.emit(FragmentHidden{Fragment: c.Hidden[0], Fragments: c.Hidden})
	}
	if len(c.Shown) > 0 {
		e.emit(FragmentShown{Fragment: c.Shown[0], Fragments: c.Shown})
		e.status = c.Shown[len(c.Shown)-1].Text
	}
	e.media.StartFragments(c.Current)
	log.Debug(log.CatFragment, "fragments", "shown", len(c.Shown), "hidden", len(c.Hidden), "cursor", fragments.Cursor(e.current))
	return true
}

// settleFragment finishes a fragment-only move.
func (e *Engine) settleFragment() {
	e.writeLocation()
	e.cue()
}

func (e *Engine) nextFragment() bool {
	if e.stepFragment(1) {
		e.settleFragment()
		return true
	}
	return false
}

func (e *Engine) prevFragment() bool {
	if e.stepFragment(-1) {
		e.settleFragment()
		return true
	}
	return false
}

// Routes reports which directions are navigable from the current position.
func (e *Engine) Routes() Routes {
	n := e.deck.Len()
	if n == 0 {
		return Routes{}
	}
	vn := e.deck.Section(e.h).VerticalLen()
	r := Routes{
		Left:  e.h > 0,
		Right: e.h < n-1,
		Up:    e.v > 0,
		Down:  e.v < vn-1,
	}
	if e.cfg.Loop {
		if n > 1 {
			r.Left, r.Right = true, true
		}
		if vn > 1 {
			r.Up, r.Down = true, true
		}
	}
	if e.cfg.RTL {
		r.Left, r.Right = r.Right, r.Left
	}
	return r
}

// AvailableFragments reports whether a fragment step backward or forward is
// possible on the present panel.
func (e *Engine) AvailableFragments() (prev, next bool) {
	return e.seq.Available(e.current)
}

func (e *Engine) gridV() *int {
	if e.cfg.NavigationMode == ModeGrid {
		return intPtr(e.v)
	}
	return nil
}

// Left steps a fragment back (forward under RTL) or moves one section left.
func (e *Engine) Left() {
	if e.cfg.RTL {
		if (e.overview || !e.nextFragment()) && e.Routes().Left {
			e.slide(e.h+1, e.gridV(), nil, "")
		}
		return
	}
	if (e.overview || !e.prevFragment()) && e.Routes().Left {
		e.slide(e.h-1, e.gridV(), nil, "")
	}
}

// Right steps a fragment forward (back under RTL) or moves one section right.
func (e *Engine) Right() {
	if e.cfg.RTL {
		if (e.overview || !e.prevFragment()) && e.Routes().Right {
			e.slide(e.h-1, e.gridV(), nil, "")
		}
		return
	}
	if (e.overview || !e.nextFragment()) && e.Routes().Right {
		e.slide(e.h+1, e.gridV(), nil, "")
	}
}

// Up steps a fragment back or moves up the stack.
func (e *Engine) Up() {
	if (e.overview || !e.prevFragment()) && e.Routes().Up {
		e.slide(e.h, intPtr(e.v-1), nil, "")
	}
}

// Down steps a fragment forward or moves down the stack.
func (e *Engine) Down() {
	if (e.overview || !e.nextFragment()) && e.Routes().Down {
		e.slide(e.h, intPtr(e.v+1), nil, "")
	}
}

// Next reveals the next fragment, else moves down, else right (left under
// RTL).
func (e *Engine) Next() {
	if e.nextFragment() {
		return
	}
	r := e.Routes()
	if r.Down && r.Right && e.cfg.Loop && e.isLastVertical() {
		r.Down = false
	}
	switch {
	case r.Down:
		e.Down()
	case e.cfg.RTL:
		e.Left()
	default:
		e.Right()
	}
}

// Prev hides the last fragment, else moves up, else enters the previous
// section where it was left, or at its last subsection if never visited.
func (e *Engine) Prev() {
	if e.prevFragment() {
		return
	}
	if e.Routes().Up {
		e.Up()
		return
	}
	if e.h == 0 {
		return
	}
	s := e.deck.Section(e.h - 1)
	v := 0
	switch {
	case s.Visited:
		v = s.PreviousV
	case s.VerticalLen() > 0:
		v = s.VerticalLen() - 1
	}
	e.slide(e.h-1, &v, nil, "")
}

// First moves to the first section.
func (e *Engine) First() {
	e.slide(0, nil, nil, "")
}

// Last moves to the last section.
func (e *Engine) Last() {
	e.slide(e.deck.Len()-1, nil, nil, "")
}

// IsFirstSlide reports whether the home panel is present.
func (e *Engine) IsFirstSlide() bool {
	return e.h == 0 && e.v == 0
}

// IsLastSlide reports whether no panel follows the present one on either
// axis.
func (e *Engine) IsLastSlide() bool {
	if e.current == nil {
		return false
	}
	if e.v < e.deck.Section(e.h).VerticalLen()-1 {
		return false
	}
	return e.h >= e.deck.Len()-1
}

func (e *Engine) isLastVertical() bool {
	s := e.deck.Section(e.h)
	return s != nil && s.IsStack() && e.v == s.VerticalLen()-1
}
