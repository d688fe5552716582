// Package autoslide schedules the autonomous advance of a presentation.
//
// A Timer holds at most one pending fire. Every Cue or Cancel bumps a
// generation counter, and a callback whose generation is stale returns
// without doing anything, so a late timer can never advance twice.
package autoslide

import (
	"sync/atomic"
	"time"

	"github.com/zjrosen/podium/internal/clock"
	"github.com/zjrosen/podium/internal/log"
)

// MediaSlack is added to autoplaying media so playback ends before advancing.
const MediaSlack = 1000 * time.Millisecond

// Timer is a cancelable one-shot advance timer.
type Timer struct {
	sched    clock.Scheduler
	gen      atomic.Uint64
	pending  clock.Stopper
	duration time.Duration
}

// NewTimer creates a timer on sched; nil means runtime timers.
func NewTimer(sched clock.Scheduler) *Timer {
	if sched == nil {
		sched = clock.Real{}
	}
	return &Timer{sched: sched}
}

// Cue cancels any pending fire and schedules fire after d. A non-positive d
// only cancels.
func (t *Timer) Cue(d time.Duration, fire func()) {
	t.Cancel()
	if d <= 0 {
		return
	}
	gen := t.gen.Load()
	t.duration = d
	t.pending = t.sched.AfterFunc(d, func() {
		if t.gen.Load() != gen {
			log.Debug(log.CatAutoSlide, "stale fire ignored", "gen", gen)
			return
		}
		t.gen.Add(1)
		t.pending = nil
		fire()
	})
	log.Debug(log.CatAutoSlide, "cued", "duration", d, "gen", gen)
}

// Cancel drops the pending fire, if any.
func (t *Timer) Cancel() {
	t.gen.Add(1)
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.duration = 0
}

// Pending reports the scheduled duration and whether a fire is pending.
func (t *Timer) Pending() (time.Duration, bool) {
	return t.duration, t.pending != nil
}

// Durations are the candidate advance durations for the current panel. Zero
// means unset.
type Durations struct {
	Fragment time.Duration
	Panel    time.Duration
	Stack    time.Duration
	Default  time.Duration

	// HasFragments disables the media extension.
	HasFragments bool
	// Media are the play times of autoplaying media on the panel.
	Media []time.Duration
}

// Resolve picks the advance duration: fragment, then panel, then stack, then
// the default. On a panel without fragments a longer autoplaying media item
// stretches the duration to its play time plus MediaSlack.
func Resolve(d Durations) time.Duration {
	var out time.Duration
	switch {
	case d.Fragment > 0:
		out = d.Fragment
	case d.Panel > 0:
		out = d.Panel
	case d.Stack > 0:
		out = d.Stack
	default:
		out = d.Default
	}
	if out <= 0 || d.HasFragments {
		return out
	}
	for _, m := range d.Media {
		if m > out {
			out = m + MediaSlack
		}
	}
	return out
}
