package engine

import (
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/podium/internal/autoslide"
	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/fragments"
	"github.com/zjrosen/podium/internal/intent"
	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/tracing"
)

// cue cancels any pending advance and schedules a new one for the present
// panel when one applies.
func (e *Engine) cue() {
	e.timer.Cancel()
	if e.current == nil || e.cfg.AutoSlide < 0 {
		e.autoSlide = 0
		return
	}

	d := autoslide.Durations{
		Panel:        e.current.AutoSlide,
		Default:      max(e.cfg.AutoSlide, 0),
		HasFragments: e.current.HasFragments(),
	}
	if f := fragments.CurrentOrFirst(e.current); f != nil {
		d.Fragment = f.AutoSlide
	}
	if s := e.deck.Section(e.h); s.IsStack() {
		d.Stack = s.AutoSlide
	}
	for _, m := range e.current.AllMedia() {
		if m.Autoplay && m.Kind != deck.Frame {
			d.Media = append(d.Media, m.PlayTime())
		}
	}
	e.autoSlide = autoslide.Resolve(d)

	if e.autoSlide <= 0 || e.autoSlidePaused || e.paused || e.overview {
		return
	}
	_, hasNext := e.seq.Available(e.current)
	if e.IsLastSlide() && !hasNext && !e.cfg.Loop {
		return
	}
	log.Debug(log.CatAutoSlide, "cue", "ms", e.autoSlide.Milliseconds(), "h", e.h, "v", e.v)
	e.timer.Cue(e.autoSlide, e.onAutoSlide)
}

func (e *Engine) onAutoSlide() {
	defer e.begin(tracing.SpanAutoSlide, attribute.Int64(tracing.AttrAutoSlideMs, e.autoSlide.Milliseconds()))()
	switch e.cfg.AutoSlideMethod {
	case intent.Prev:
		e.Prev()
	case intent.Right:
		e.Right()
	case intent.Left:
		e.Left()
	case intent.Down:
		e.Down()
	default:
		e.Next()
	}
	// Navigation re-cues on change; cue again for the case where nothing moved.
	e.cue()
}

// AutoSlide reports the resolved advance duration for the present panel.
func (e *Engine) AutoSlide() time.Duration {
	return e.autoSlide
}

// AutoSlidePending reports whether an advance is scheduled.
func (e *Engine) AutoSlidePending() bool {
	_, ok := e.timer.Pending()
	return ok
}

// AutoSlidePaused reports whether the advance timer has been paused.
func (e *Engine) AutoSlidePaused() bool {
	return e.autoSlidePaused
}

// PauseAutoSlide stops the advance timer until resumed.
func (e *Engine) PauseAutoSlide() {
	if e.autoSlide <= 0 || e.autoSlidePaused {
		return
	}
	e.autoSlidePaused = true
	e.timer.Cancel()
	e.emit(AutoSlidePaused{})
}

// ResumeAutoSlide restarts a paused advance timer.
func (e *Engine) ResumeAutoSlide() {
	if e.autoSlide <= 0 || !e.autoSlidePaused {
		return
	}
	e.autoSlidePaused = false
	e.cue()
	e.emit(AutoSlideResumed{})
}

// ToggleAutoSlide flips the advance timer, or forces it when on is non-nil.
func (e *Engine) ToggleAutoSlide(on *bool) {
	resume := e.autoSlidePaused
	if on != nil {
		resume = *on
	}
	if resume {
		e.ResumeAutoSlide()
	} else {
		e.PauseAutoSlide()
	}
}

// AutoSlidePlayerClick handles the play/pause control: at the end of a
// non-looping deck it restarts from home.
func (e *Engine) AutoSlidePlayerClick() {
	if e.IsLastSlide() && !e.cfg.Loop {
		e.slide(0, intPtr(0), nil, "")
		e.ResumeAutoSlide()
		return
	}
	e.ToggleAutoSlide(nil)
}

// Paused reports whether the presentation is paused.
func (e *Engine) Paused() bool {
	return e.paused
}

// Pause blanks the presentation and holds the advance timer.
func (e *Engine) Pause() {
	if !e.cfg.Pause || e.paused {
		return
	}
	e.paused = true
	e.timer.Cancel()
	log.Info(log.CatNav, "paused", "h", e.h, "v", e.v)
	e.emit(Paused{})
}

// Resume undoes Pause.
func (e *Engine) Resume() {
	was := e.paused
	e.paused = false
	e.cue()
	if was {
		log.Info(log.CatNav, "resumed", "h", e.h, "v", e.v)
		e.emit(Resumed{})
	}
}

// TogglePause flips the paused state, or forces it when on is non-nil.
func (e *Engine) TogglePause(on *bool) {
	pause := !e.paused
	if on != nil {
		pause = *on
	}
	if pause {
		e.Pause()
	} else {
		e.Resume()
	}
}
