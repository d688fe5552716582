package engine

import (
	"github.com/zjrosen/podium/internal/deck"
)

// Event is a notification emitted synchronously to observers.
type Event interface {
	Name() string
}

// Origin tags what triggered a transition.
const (
	OriginOverview  = "overview"
	OriginAutoSlide = "autoslide"
	OriginLocation  = "location"
	OriginRestore   = "restore"
	OriginSync      = "sync"
)

// Ready fires once the engine has laid out its first position.
type Ready struct {
	H, V    int
	Current *deck.Panel
}

// SlideChanged fires when the present panel changes.
type SlideChanged struct {
	H, V                 int
	PreviousH, PreviousV int
	Previous, Current    *deck.Panel
	Origin               string
}

// FragmentShown fires when fragments become visible.
type FragmentShown struct {
	Fragment  *deck.Fragment
	Fragments []*deck.Fragment
}

// FragmentHidden fires when fragments become hidden.
type FragmentHidden struct {
	Fragment  *deck.Fragment
	Fragments []*deck.Fragment
}

// OverviewShown fires when the grid projection opens.
type OverviewShown struct{ H, V int }

// OverviewHidden fires when the grid projection closes.
type OverviewHidden struct{ H, V int }

// Paused fires when the presentation pauses.
type Paused struct{}

// Resumed fires when the presentation resumes.
type Resumed struct{}

// AutoSlidePaused fires when the advance timer is paused.
type AutoSlidePaused struct{}

// AutoSlideResumed fires when the advance timer resumes.
type AutoSlideResumed struct{}

// StateEnter fires for each custom state tag of a panel that becomes present.
type StateEnter struct{ Tag string }

// StateLeave fires for each tag that no longer applies.
type StateLeave struct{ Tag string }

// MediaError reports a media load failure. Navigation is unaffected.
type MediaError struct {
	Media *deck.Media
	Err   error
}

func (Ready) Name() string            { return "ready" }
func (SlideChanged) Name() string     { return "slidechanged" }
func (FragmentShown) Name() string    { return "fragmentshown" }
func (FragmentHidden) Name() string   { return "fragmenthidden" }
func (OverviewShown) Name() string    { return "overviewshown" }
func (OverviewHidden) Name() string   { return "overviewhidden" }
func (Paused) Name() string           { return "paused" }
func (Resumed) Name() string          { return "resumed" }
func (AutoSlidePaused) Name() string  { return "autoslidepaused" }
func (AutoSlideResumed) Name() string { return "autoslideresumed" }
func (e StateEnter) Name() string     { return e.Tag }
func (e StateLeave) Name() string     { return e.Tag + ":leave" }
func (MediaError) Name() string       { return "mediaerror" }

// Observer receives events.
type Observer func(Event)

type observerEntry struct {
	id int
	fn Observer
}
