// Package intent defines the navigation commands the engine accepts from
// input collaborators (keyboard, mouse, remote control).
package intent

import (
	"fmt"
	"strings"
)

// Kind identifies a navigation command.
type Kind int

const (
	Next Kind = iota
	Prev
	Left
	Right
	Up
	Down
	First
	Last
	GoTo
	ToggleOverview
	TogglePause
	ToggleAutoSlide
	PickFromOverview
)

var names = map[Kind]string{
	Next:             "next",
	Prev:             "prev",
	Left:             "left",
	Right:            "right",
	Up:               "up",
	Down:             "down",
	First:            "first",
	Last:             "last",
	GoTo:             "goto",
	ToggleOverview:   "overview",
	TogglePause:      "pause",
	ToggleAutoSlide:  "autoslide",
	PickFromOverview: "pick",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("intent(%d)", int(k))
}

// Parse resolves a command name.
func Parse(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range names {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown intent %q", name)
}

// Intent is one command with its arguments.
type Intent struct {
	Kind Kind
	// H, V and F address GoTo and PickFromOverview. V and F are optional.
	H int
	V *int
	F *int
	// Toggle forces a toggle on or off; nil flips it.
	Toggle *bool
	// Origin tags where the command came from.
	Origin string
}

// Of returns an argument-less intent.
func Of(k Kind) Intent {
	return Intent{Kind: k}
}

// To returns a GoTo intent.
func To(h int, v, f *int) Intent {
	return Intent{Kind: GoTo, H: h, V: v, F: f}
}

// Pick returns a PickFromOverview intent.
func Pick(h, v int) Intent {
	return Intent{Kind: PickFromOverview, H: h, V: &v}
}

// Set returns a toggle intent forced to on.
func Set(k Kind, on bool) Intent {
	return Intent{Kind: k, Toggle: &on}
}

// ResumesAutoSlide reports whether the intent controls the autoslide timer
// itself, in which case input must not pause the timer first.
func (i Intent) ResumesAutoSlide() bool {
	return i.Kind == ToggleAutoSlide
}

// WithOrigin tags the intent.
func (i Intent) WithOrigin(origin string) Intent {
	i.Origin = origin
	return i
}
