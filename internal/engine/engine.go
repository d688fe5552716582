// Package engine is the presentation navigation state machine. It owns the
// current position, recomputes display states on every transition and keeps
// the fragment, overview, autoslide, location and media collaborators in
// step.
//
// An Engine is not safe for concurrent use. Every method runs a transition
// to completion; asynchronous timer callbacks must be delivered on the same
// goroutine that calls the engine (the clock.Scheduler passed in decides
// how).
package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/podium/internal/autoslide"
	"github.com/zjrosen/podium/internal/clock"
	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/fragments"
	"github.com/zjrosen/podium/internal/history"
	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/media"
	"github.com/zjrosen/podium/internal/tracing"
)

// Engine drives one deck.
type Engine struct {
	deck  *deck.Deck
	cfg   Config
	seq   fragments.Sequencer
	codec history.Codec

	media  *media.Manager
	timer  *autoslide.Timer
	writer *history.Writer
	tracer trace.Tracer
	ctx    context.Context
	// spanCtx carries the span of the transition in progress.
	spanCtx context.Context

	observers []observerEntry
	nextID    int

	h, v     int
	current  *deck.Panel
	previous *deck.Panel
	started  bool
	// bulk is nonzero while Sync or Restore defer location writes.
	bulk int

	paused          bool
	overview        bool
	autoSlidePaused bool
	// autoSlide is the duration resolved at the last cue, scheduled or not.
	autoSlide time.Duration

	states         []string
	status         string
	prevBackground *deck.Background
	noTransition   bool

	viewportW, viewportH int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPlayer plays embedded media through p.
func WithPlayer(p media.Player) Option {
	return func(e *Engine) {
		e.media = media.NewManager(p, e.cfg.AutoPlayMedia, e.onMediaError)
	}
}

// WithScheduler runs autoslide callbacks on s.
func WithScheduler(s clock.Scheduler) Option {
	return func(e *Engine) {
		e.timer = autoslide.NewTimer(s)
	}
}

// WithHistory writes location tokens through w.
func WithHistory(w *history.Writer) Option {
	return func(e *Engine) {
		e.writer = w
	}
}

// WithTracer records a span per transition.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithContext sets the context used for store writes and spans.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		e.ctx = ctx
	}
}

// New creates an engine for d. Fragments are sorted immediately; nothing is
// laid out until Start.
func New(d *deck.Deck, cfg Config, opts ...Option) *Engine {
	if d == nil {
		d = deck.New("")
	}
	if cfg.ViewDistance <= 0 {
		cfg.ViewDistance = DefaultConfig().ViewDistance
	}
	if cfg.NavigationMode == "" {
		cfg.NavigationMode = ModeDefault
	}
	if cfg.SlideNumber == "" {
		cfg.SlideNumber = NumberHDotV
	}
	e := &Engine{
		deck:  d,
		cfg:   cfg,
		seq:   fragments.Sequencer{Enabled: cfg.Fragments},
		codec: history.Codec{OneBased: cfg.OneBasedIndex, FragmentInURL: cfg.FragmentInURL},
		ctx:   context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.timer == nil {
		e.timer = autoslide.NewTimer(nil)
	}
	if e.tracer == nil {
		e.tracer = noop.NewTracerProvider().Tracer("noop")
	}
	e.spanCtx = e.ctx
	fragments.SortDeck(d)
	return e
}

// Start lays out the initial position from token (home when empty) and
// emits Ready.
func (e *Engine) Start(token string) {
	defer e.begin(tracing.SpanStart, attribute.String(tracing.AttrToken, token))()
	if e.deck.Empty() {
		return
	}
	if token == "" {
		e.slide(0, intPtr(0), nil, "")
	} else {
		e.readLocation(token)
	}
	if !e.started {
		e.slide(e.h, intPtr(e.v), nil, "")
	}
	e.emit(Ready{H: e.h, V: e.v, Current: e.current})
	log.Info(log.CatNav, "ready", "h", e.h, "v", e.v, "sections", e.deck.Len())
}

// Deck returns the deck being presented.
func (e *Engine) Deck() *deck.Deck {
	return e.deck
}

// Config returns the active configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Indices returns the current position.
func (e *Engine) Indices() (h, v int) {
	return e.h, e.v
}

// Current returns the present panel, nil for an empty deck or empty stack.
func (e *Engine) Current() *deck.Panel {
	return e.current
}

// Previous returns the panel left by the last transition, nil when the last
// transition stayed on the same panel.
func (e *Engine) Previous() *deck.Panel {
	return e.previous
}

// Observe registers fn and returns a function that removes it.
func (e *Engine) Observe(fn Observer) func() {
	e.nextID++
	id := e.nextID
	e.observers = append(e.observers, observerEntry{id: id, fn: fn})
	return func() {
		for i, o := range e.observers {
			if o.id == id {
				e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) emit(ev Event) {
	log.Debug(log.CatNav, "event", "name", ev.Name())
	trace.SpanFromContext(e.spanCtx).AddEvent(ev.Name())
	for _, o := range append([]observerEntry(nil), e.observers...) {
		o.fn(ev)
	}
}

func (e *Engine) onMediaError(m *deck.Media, err error) {
	e.emit(MediaError{Media: m, Err: err})
}

// begin opens a span for a public transition and returns its closer.
func (e *Engine) begin(name string, attrs ...attribute.KeyValue) func() {
	ctx, span := e.tracer.Start(e.spanCtx, name, trace.WithAttributes(attrs...))
	parent := e.spanCtx
	e.spanCtx = ctx
	return func() {
		span.SetAttributes(attribute.Int(tracing.AttrH, e.h), attribute.Int(tracing.AttrV, e.v))
		span.End()
		e.spanCtx = parent
	}
}

func intPtr(i int) *int { return &i }
