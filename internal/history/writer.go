package history

import (
	"context"
	"sync"
	"time"

	"github.com/zjrosen/podium/internal/clock"
	"github.com/zjrosen/podium/internal/log"
)

// Writer forwards tokens to a Store, skipping repeats. WriteDelayed
// coalesces bursts of writes into one.
type Writer struct {
	store Store
	sched clock.Scheduler

	mu      sync.Mutex
	last    string
	written bool
	gen     uint64
	pending clock.Stopper
	// pendingToken produces the token of the delayed write, if any.
	pendingToken func() string
}

// NewWriter writes to store; a nil sched uses runtime timers.
func NewWriter(store Store, sched clock.Scheduler) *Writer {
	if sched == nil {
		sched = clock.Real{}
	}
	return &Writer{store: store, sched: sched}
}

// Write saves token now, canceling any delayed write. Writing the token
// that was last written is a no-op.
func (w *Writer) Write(ctx context.Context, token string) {
	w.mu.Lock()
	w.cancelLocked()
	w.mu.Unlock()
	w.save(ctx, token)
}

// WriteDelayed saves the token returned by tokenFn after d, unless another
// write happens first.
func (w *Writer) WriteDelayed(ctx context.Context, d time.Duration, tokenFn func() string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancelLocked()
	gen := w.gen
	w.pendingToken = tokenFn
	w.pending = w.sched.AfterFunc(d, func() {
		w.mu.Lock()
		if w.gen != gen {
			w.mu.Unlock()
			return
		}
		w.pending, w.pendingToken = nil, nil
		w.mu.Unlock()
		w.save(ctx, tokenFn())
	})
}

// Last returns the most recently written token.
func (w *Writer) Last() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Flush performs any pending delayed write now.
func (w *Writer) Flush(ctx context.Context) {
	w.mu.Lock()
	tokenFn := w.pendingToken
	w.cancelLocked()
	w.mu.Unlock()
	if tokenFn != nil {
		w.save(ctx, tokenFn())
	}
}

func (w *Writer) cancelLocked() {
	w.gen++
	w.pendingToken = nil
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
}

func (w *Writer) save(ctx context.Context, token string) {
	w.mu.Lock()
	dup := w.written && token == w.last
	w.mu.Unlock()
	if dup {
		return
	}

	if w.store != nil {
		if err := w.store.Save(ctx, token); err != nil {
			// Left unrecorded so the next write of token retries.
			log.ErrorErr(log.CatHistory, "location write failed", err, "token", token)
			return
		}
	}

	w.mu.Lock()
	w.last, w.written = token, true
	w.mu.Unlock()
}
