// Package deck holds the static presentation tree: horizontal sections, each
// either a single panel or a vertical stack of panels.
//
// Structure is fixed once a Deck is built. Only display states, fragment
// states and a stack's remembered vertical index change while presenting.
package deck

import (
	"time"
)

// State is the display state of a panel relative to the current position.
type State int

const (
	Future State = iota
	Present
	Past
)

func (s State) String() string {
	switch s {
	case Past:
		return "past"
	case Present:
		return "present"
	default:
		return "future"
	}
}

// Kind tags a Section as a leaf panel or a vertical stack.
type Kind int

const (
	Leaf Kind = iota
	Stack
)

// Deck is the ordered list of horizontal sections.
type Deck struct {
	Title    string
	Sections []*Section
}

// New builds a deck from sections.
func New(title string, sections ...*Section) *Deck {
	return &Deck{Title: title, Sections: sections}
}

// Section is one column of the deck.
type Section struct {
	Kind  Kind
	State State

	// Leaf holds the panel when Kind == Leaf.
	Leaf *Panel
	// Subsections holds the vertical panels when Kind == Stack.
	Subsections []*Panel

	// Stack level metadata, used as fallbacks by the subsections.
	AutoSlide  time.Duration
	Background *Background

	// StartV is the entry index until the stack has been visited.
	StartV *int
	// PreviousV is the vertical index the stack was last left at.
	PreviousV int
	// Visited is set once the viewer leaves the stack, and cleared by
	// ResetPreviousV.
	Visited bool
}

// NewLeaf wraps a panel as a horizontal section.
func NewLeaf(p *Panel) *Section {
	return &Section{Kind: Leaf, Leaf: p}
}

// NewStack wraps panels as a vertical stack.
func NewStack(panels ...*Panel) *Section {
	return &Section{Kind: Stack, Subsections: panels}
}

// IsStack reports whether the section is a vertical stack.
func (s *Section) IsStack() bool {
	return s != nil && s.Kind == Stack
}

// VerticalLen returns the number of subsections (0 for a leaf).
func (s *Section) VerticalLen() int {
	if !s.IsStack() {
		return 0
	}
	return len(s.Subsections)
}

// Panel returns the panel at vertical index v. A leaf ignores v. Returns nil
// for an empty stack or an out-of-range index.
func (s *Section) Panel(v int) *Panel {
	if s.Kind == Leaf {
		return s.Leaf
	}
	if v < 0 || v >= len(s.Subsections) {
		return nil
	}
	return s.Subsections[v]
}

// Panels returns every panel of the section in document order.
func (s *Section) Panels() []*Panel {
	if s.Kind == Leaf {
		if s.Leaf == nil {
			return nil
		}
		return []*Panel{s.Leaf}
	}
	return s.Subsections
}

// ResumeV returns the vertical index to enter the stack at: where it was
// left, or StartV on first entry.
func (s *Section) ResumeV() int {
	if !s.IsStack() {
		return 0
	}
	if !s.Visited && s.StartV != nil {
		return *s.StartV
	}
	return s.PreviousV
}

// Remember records v as the index the stack was left at.
func (s *Section) Remember(v int) {
	if !s.IsStack() {
		return
	}
	s.PreviousV = v
	s.Visited = true
}

// Len returns the number of horizontal sections.
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Sections)
}

// Empty reports whether there is nothing to navigate.
func (d *Deck) Empty() bool {
	return d.Len() == 0
}

// Section returns the section at h or nil.
func (d *Deck) Section(h int) *Section {
	if h < 0 || h >= d.Len() {
		return nil
	}
	return d.Sections[h]
}

// Panel returns the panel at (h, v) or nil.
func (d *Deck) Panel(h, v int) *Panel {
	s := d.Section(h)
	if s == nil {
		return nil
	}
	return s.Panel(v)
}

// TotalPanels counts leaf panels and subsections; stacks themselves are not
// panels.
func (d *Deck) TotalPanels() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Panels())
	}
	return n
}

// Walk calls fn for every panel with its coordinates. A leaf reports v == 0.
func (d *Deck) Walk(fn func(h, v int, p *Panel)) {
	if d == nil {
		return
	}
	for h, s := range d.Sections {
		for v, p := range s.Panels() {
			fn(h, v, p)
		}
	}
}

// Locate returns the coordinates of p.
func (d *Deck) Locate(p *Panel) (h, v int, ok bool) {
	d.Walk(func(ph, pv int, candidate *Panel) {
		if !ok && candidate == p {
			h, v, ok = ph, pv, true
		}
	})
	return h, v, ok
}

// ResetPreviousV forgets the remembered vertical index of every stack.
func (d *Deck) ResetPreviousV() {
	for _, s := range d.Sections {
		if s.IsStack() {
			s.PreviousV = 0
			s.Visited = false
		}
	}
}
