package engine

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/fragments"
	"github.com/zjrosen/podium/internal/history"
	"github.com/zjrosen/podium/internal/intent"
	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/tracing"
)

// Snapshot is the serializable presentation state.
type Snapshot struct {
	H        int  `json:"indexh" yaml:"indexh"`
	V        int  `json:"indexv" yaml:"indexv"`
	F        *int `json:"indexf,omitempty" yaml:"indexf,omitempty"`
	Paused   bool `json:"paused" yaml:"paused"`
	Overview bool `json:"overview" yaml:"overview"`
}

// Capture returns the current state. F is nil unless the present panel has
// a revealed fragment.
func (e *Engine) Capture() Snapshot {
	return Snapshot{
		H:        e.h,
		V:        e.v,
		F:        e.fragmentCursor(),
		Paused:   e.paused,
		Overview: e.overview,
	}
}

// Restore reproduces the state s was captured from. Applying the same
// snapshot twice changes nothing the second time.
func (e *Engine) Restore(s Snapshot) {
	defer e.begin(tracing.SpanRestore, attribute.Int(tracing.AttrH, s.H), attribute.Int(tracing.AttrV, s.V))()
	defer e.deferWrites()()
	f := -1
	if s.F != nil {
		f = *s.F
	}
	e.slide(s.H, intPtr(s.V), &f, OriginRestore)
	e.TogglePause(&s.Paused)
	e.ToggleOverview(&s.Overview)
}

func (e *Engine) fragmentCursor() *int {
	if !e.cfg.Fragments || !e.current.HasFragments() {
		return nil
	}
	c := fragments.Cursor(e.current)
	if c < 0 {
		return nil
	}
	return &c
}

// Location returns the position a location token records.
func (e *Engine) Location() history.Location {
	loc := history.Location{H: e.h, V: e.v, F: e.fragmentCursor()}
	if e.current != nil {
		loc.ID = e.current.ID
	}
	return loc
}

// Token encodes the current location.
func (e *Engine) Token() string {
	return e.codec.Encode(e.Location())
}

func (e *Engine) writeLocation() {
	if e.writer == nil {
		return
	}
	if e.bulk > 0 && e.cfg.HistoryDebounce > 0 {
		e.writer.WriteDelayed(e.ctx, e.cfg.HistoryDebounce, e.Token)
		return
	}
	e.writer.Write(e.spanCtx, e.Token())
}

// deferWrites turns location writes into one debounced write until the
// returned func runs.
func (e *Engine) deferWrites() func() {
	e.bulk++
	return func() { e.bulk-- }
}

// ReadLocation navigates to the position token names. Unknown ids and
// malformed tokens never fail; they leave the presentation where it is or
// send it home.
func (e *Engine) ReadLocation(token string) {
	defer e.begin(tracing.SpanLocation, attribute.String(tracing.AttrToken, token))()
	e.readLocation(token)
}

func (e *Engine) readLocation(token string) {
	if e.deck.Empty() {
		return
	}
	dec := e.codec.Decode(token)
	if dec.ID != "" {
		h, v, err := e.deck.Resolve(dec.ID)
		if err != nil {
			var unknown *deck.UnknownIDError
			if errors.As(err, &unknown) && unknown.Suggestion != "" {
				log.Warn(log.CatHistory, "unknown location", "id", dec.ID, "suggestion", unknown.Suggestion)
			} else {
				log.Warn(log.CatHistory, "unknown location", "id", dec.ID)
			}
			e.slide(e.h, intPtr(e.v), nil, OriginLocation)
			return
		}
		if e.current == nil || e.current.ID != dec.ID {
			e.slide(h, intPtr(v), nil, OriginLocation)
		}
		return
	}
	if !e.started || dec.H != e.h || dec.V != e.v || dec.F != nil {
		e.slide(dec.H, intPtr(dec.V), dec.F, OriginLocation)
	}
}

// Sync replaces the deck, keeping the position and fragment cursor where
// they still fit.
func (e *Engine) Sync(d *deck.Deck) {
	defer e.begin(tracing.SpanSync, attribute.String(tracing.AttrDeck, d.Title))()
	defer e.deferWrites()()
	snap := e.Capture()
	fragments.SortDeck(d)

	// The old deck's media is unreachable once the deck is swapped.
	e.media.StopPanel(e.current, true)
	e.media.StopBackground(e.prevBackground)
	e.deck = d
	e.prevBackground = nil
	e.current = nil
	if d.Empty() {
		e.timer.Cancel()
		e.h, e.v, e.previous = 0, 0, nil
		return
	}
	f := -1
	if snap.F != nil {
		f = *snap.F
	}
	e.slide(snap.H, intPtr(snap.V), &f, OriginSync)
	log.Info(log.CatDeck, "synced", "sections", d.Len(), "h", e.h, "v", e.v)
}

// Dispatch applies one input intent.
func (e *Engine) Dispatch(in intent.Intent) {
	defer e.begin(tracing.SpanDispatch,
		attribute.String(tracing.AttrIntent, in.Kind.String()),
		attribute.String(tracing.AttrOrigin, in.Origin))()

	if e.cfg.AutoSlideStoppable && !in.ResumesAutoSlide() {
		e.PauseAutoSlide()
	}
	linear := e.cfg.NavigationMode == ModeLinear && !e.overview

	switch in.Kind {
	case intent.Next:
		e.Next()
	case intent.Prev:
		e.Prev()
	case intent.Left:
		if linear {
			e.Prev()
		} else {
			e.Left()
		}
	case intent.Right:
		if linear {
			e.Next()
		} else {
			e.Right()
		}
	case intent.Up:
		e.Up()
	case intent.Down:
		e.Down()
	case intent.First:
		e.First()
	case intent.Last:
		e.Last()
	case intent.GoTo:
		e.GoTo(Target{H: in.H, V: in.V, F: in.F, Origin: in.Origin})
	case intent.ToggleOverview:
		e.ToggleOverview(in.Toggle)
	case intent.TogglePause:
		e.TogglePause(in.Toggle)
	case intent.ToggleAutoSlide:
		e.ToggleAutoSlide(in.Toggle)
	case intent.PickFromOverview:
		v := 0
		if in.V != nil {
			v = *in.V
		}
		e.Pick(in.H, v)
	default:
		log.Warn(log.CatNav, "unhandled intent", "intent", in.Kind.String())
	}
}
