package deck

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Panel is a single presentable unit: a leaf section or one subsection.
type Panel struct {
	ID    string
	Title string
	Body  string
	Notes string

	State     State
	Fragments []*Fragment

	// AutoSlide overrides the stack and global advance duration when > 0.
	AutoSlide time.Duration
	// States are custom state tags entered while the panel is present.
	States     []string
	Background *Background
	// Media lists embedded media outside any fragment.
	Media []*Media
}

// HasFragments reports whether the panel has any fragments.
func (p *Panel) HasFragments() bool {
	return p != nil && len(p.Fragments) > 0
}

// AllMedia returns panel media followed by fragment media.
func (p *Panel) AllMedia() []*Media {
	if p == nil {
		return nil
	}
	out := append([]*Media(nil), p.Media...)
	for _, f := range p.Fragments {
		out = append(out, f.Media...)
	}
	return out
}

// FragmentState is the reveal state of a fragment.
type FragmentState int

const (
	Hidden FragmentState = iota
	Visible
	Current
)

func (s FragmentState) String() string {
	switch s {
	case Visible:
		return "visible"
	case Current:
		return "current"
	default:
		return "hidden"
	}
}

// Shown reports whether the fragment is revealed (visible or current).
func (s FragmentState) Shown() bool {
	return s != Hidden
}

// Fragment is a sub-revealable element of a panel.
type Fragment struct {
	Text string
	// Index is the explicit ordering index; nil means document order.
	Index *int
	State FragmentState

	AutoSlide time.Duration
	Media     []*Media
}

// Order returns the fragment's index, or -1 when it has none yet.
func (f *Fragment) Order() int {
	if f.Index == nil {
		return -1
	}
	return *f.Index
}

// MediaKind distinguishes embedded media.
type MediaKind int

const (
	Video MediaKind = iota
	Audio
	Frame
)

func (k MediaKind) String() string {
	switch k {
	case Audio:
		return "audio"
	case Frame:
		return "frame"
	default:
		return "video"
	}
}

// Media is an embedded playable element.
type Media struct {
	Kind   MediaKind
	Source string
	// Autoplay opts the element in when no global autoplay policy is set.
	Autoplay bool
	// Ignore keeps the element playing when its panel leaves.
	Ignore bool
	// Lazy elements are unloaded when their panel leaves.
	Lazy         bool
	Duration     time.Duration
	PlaybackRate float64
}

// PlayTime is the wall-clock length of the media at its playback rate.
func (m *Media) PlayTime() time.Duration {
	rate := m.PlaybackRate
	if rate <= 0 {
		rate = 1
	}
	return time.Duration(float64(m.Duration) / rate)
}

// Tone is a light/dark hint for text drawn over a background.
type Tone int

const (
	ToneUnknown Tone = iota
	ToneLight
	ToneDark
)

// Background describes a panel or stack background layer.
type Background struct {
	Color      string
	Image      string
	Transition string
	Tone       Tone
	// Video is background media; it always autoplays when no global policy is set.
	Video *Media

	State State
}

// Hash fingerprints the visual content so two panels sharing a background can
// be drawn without a transition.
func (b *Background) Hash() string {
	if b == nil {
		return ""
	}
	parts := []string{b.Color, b.Image, b.Transition}
	if b.Video != nil {
		parts = append(parts, b.Video.Source)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(parts, "\x00"))).String()
}
