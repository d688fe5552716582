package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/fragments"
	"github.com/zjrosen/podium/internal/overview"
)

// View is everything the renderer needs after a transition.
type View struct {
	H, V    int
	Current *deck.Panel
	Routes  Routes
	// PrevFragment and NextFragment report pending fragment steps.
	PrevFragment, NextFragment bool

	Progress    float64
	SlideNumber string
	Status      string
	Notes       string

	Overview bool
	Paused   bool

	AutoSlide        time.Duration
	AutoSlidePaused  bool
	AutoSlidePending bool

	Background   *deck.Background
	NoTransition bool
	Tone         deck.Tone

	ParallaxX, ParallaxY float64

	States []string
}

// View returns the render state for the current position.
func (e *Engine) View() View {
	v := View{
		H:                e.h,
		V:                e.v,
		Current:          e.current,
		Routes:           e.Routes(),
		Progress:         e.Progress(),
		SlideNumber:      e.SlideNumber(),
		Status:           e.status,
		Overview:         e.overview,
		Paused:           e.paused,
		AutoSlide:        e.autoSlide,
		AutoSlidePaused:  e.autoSlidePaused,
		AutoSlidePending: e.AutoSlidePending(),
		Background:       e.prevBackground,
		NoTransition:     e.noTransition,
		States:           append([]string(nil), e.states...),
	}
	v.PrevFragment, v.NextFragment = e.AvailableFragments()
	if e.current != nil {
		v.Notes = e.current.Notes
	}
	if v.Background != nil {
		v.Tone = v.Background.Tone
	}
	v.ParallaxX, v.ParallaxY = e.ParallaxOffset()
	return v
}

// StatusText is the accessible description of the present panel, or of the
// last revealed fragment.
func (e *Engine) StatusText() string {
	return e.status
}

func statusText(p *deck.Panel) string {
	if p == nil {
		return ""
	}
	if p.Title != "" {
		return p.Title
	}
	line, _, _ := strings.Cut(strings.TrimSpace(p.Body), "\n")
	return strings.TrimSpace(strings.TrimLeft(line, "# "))
}

// pastCount is the number of panels before the present one in reading
// order.
func (e *Engine) pastCount() int {
	n := 0
	for i := 0; i < e.h && i < e.deck.Len(); i++ {
		n += len(e.deck.Section(i).Panels())
	}
	if s := e.deck.Section(e.h); s != nil && s.IsStack() {
		n += e.v
	}
	return n
}

// Progress is the fraction of the deck seen so far, in [0, 1]. Revealed
// fragments count towards the present panel.
func (e *Engine) Progress() float64 {
	total := e.deck.TotalPanels()
	if total <= 1 {
		return 0
	}
	past := float64(e.pastCount())
	if visible, n := fragments.Visible(e.current); n > 0 {
		past += float64(visible) / float64(n) * 0.9
	}
	return min(past/float64(total-1), 1)
}

// SlideNumber renders the position indicator in the configured format.
func (e *Engine) SlideNumber() string {
	if e.current == nil {
		return ""
	}
	format := e.cfg.SlideNumber
	if !strings.Contains(string(format), "c") && e.deck.Len() == 1 {
		format = NumberCount
	}
	past := e.pastCount()
	vertical := e.deck.Section(e.h).IsStack()
	switch format {
	case NumberCount:
		return strconv.Itoa(past + 1)
	case NumberCountTotal:
		return strconv.Itoa(past+1) + "/" + strconv.Itoa(e.deck.TotalPanels())
	case NumberHSlashV:
		return e.hv("/", vertical)
	default:
		return e.hv(".", vertical)
	}
}

func (e *Engine) hv(sep string, vertical bool) string {
	s := strconv.Itoa(e.h + 1)
	if vertical {
		s += sep + strconv.Itoa(e.v+1)
	}
	return s
}

// Loaded reports whether the panel at (h, v) is close enough to the present
// one to keep its content loaded.
func (e *Engine) Loaded(h, v int) bool {
	s := e.deck.Section(h)
	if s == nil {
		return false
	}
	vd := e.cfg.ViewDistance
	if e.overview {
		vd = overview.ViewDistance
	}
	n := e.deck.Len()
	distX := abs(e.h - h)
	if e.cfg.Loop {
		if m := n - vd; m > 0 {
			distX = abs((e.h - h) % m)
		} else {
			distX = 0
		}
	}
	if !s.IsStack() {
		return distX < vd
	}
	var distY int
	if h == e.h {
		distY = abs(e.v - v)
	} else {
		distY = abs(v - s.ResumeV())
	}
	return distX+distY < vd
}

// ParallaxOffset is the background offset for the present position. Without
// a vertical axis to spread over the vertical offset is zero.
func (e *Engine) ParallaxOffset() (x, y float64) {
	p := e.cfg.Parallax
	if p == (Parallax{}) || e.current == nil {
		return 0, 0
	}
	n := e.deck.Len()
	hMul := p.Horizontal
	if hMul == 0 && n > 1 {
		hMul = float64(p.ImageWidth-e.viewportW) / float64(n-1)
	}
	vCount := e.deck.Section(e.h).VerticalLen()
	vMul := p.Vertical
	if vMul == 0 && vCount > 1 {
		vMul = float64(p.ImageHeight-e.viewportH) / float64(vCount-1)
	}
	return -hMul * float64(e.h), -vMul * float64(e.v)
}

// updateBackground assigns background states and switches background media
// when the present background changes.
func (e *Engine) updateBackground() {
	for h, s := range e.deck.Sections {
		if s.Background != nil {
			s.Background.State = s.State
		}
		for _, p := range s.Panels() {
			if p.Background == nil {
				continue
			}
			if h == e.h && s.IsStack() {
				p.Background.State = p.State
			} else {
				p.Background.State = s.State
			}
		}
	}

	var bg *deck.Background
	if e.current != nil {
		bg = e.current.Background
	}
	if bg == nil {
		bg = e.deck.Section(e.h).Background
	}

	prev := e.prevBackground
	e.noTransition = prev != nil && bg != nil && prev != bg && prev.Hash() == bg.Hash()
	if prev != bg {
		e.media.StopBackground(prev)
		e.media.StartBackground(bg)
	}
	e.prevBackground = bg
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
