package fragments

import (
	"github.com/zjrosen/podium/internal/deck"
)

// Change lists the fragments whose visibility changed during a reveal.
type Change struct {
	Shown  []*deck.Fragment
	Hidden []*deck.Fragment
	// Current is the group that became current, empty when the cursor sits
	// before the first fragment.
	Current []*deck.Fragment
}

// Empty reports whether no fragment changed visibility.
func (c Change) Empty() bool {
	return len(c.Shown) == 0 && len(c.Hidden) == 0
}

// Sequencer reveals fragment groups on a panel. The zero value has fragments
// disabled.
type Sequencer struct {
	Enabled bool
}

// Available reports whether a step backward or forward would change anything.
func (s Sequencer) Available(p *deck.Panel) (prev, next bool) {
	if !s.Enabled || !p.HasFragments() {
		return false, false
	}
	visible, total := Visible(p)
	return visible > 0, visible < total
}

// Reveal shows every group up to target, marks target current and hides the
// rest. target is clamped to [-1, Count-1]. Revealing the already applied
// cursor returns an empty Change.
func (s Sequencer) Reveal(p *deck.Panel, target int) Change {
	var c Change
	if !s.Enabled || !p.HasFragments() {
		return c
	}
	target = clamp(target, -1, Count(p)-1)

	for _, f := range p.Fragments {
		i := f.Order()
		if i <= target {
			if !f.State.Shown() {
				c.Shown = append(c.Shown, f)
			}
			f.State = deck.Visible
			if i == target {
				f.State = deck.Current
				c.Current = append(c.Current, f)
			}
			continue
		}
		if f.State.Shown() {
			c.Hidden = append(c.Hidden, f)
		}
		f.State = deck.Hidden
	}
	return c
}

// Step moves the cursor by offset groups. moved is false when fragments are
// disabled, the panel has none, or nothing changed; callers fall through to
// panel navigation in that case.
func (s Sequencer) Step(p *deck.Panel, offset int) (c Change, moved bool) {
	if !s.Enabled || !p.HasFragments() {
		return c, false
	}
	c = s.Reveal(p, Cursor(p)+offset)
	return c, !c.Empty()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
