package tracing

// Span attribute keys for presentation tracing.
const (
	AttrH      = "nav.h"
	AttrV      = "nav.v"
	AttrF      = "nav.f"
	AttrOrigin = "nav.origin"
	AttrIntent = "nav.intent"
	AttrDeck   = "deck.title"
	AttrToken  = "history.token"

	AttrAutoSlideMs = "autoslide.duration_ms"

	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanStart     = "engine.start"
	SpanDispatch  = "engine.dispatch"
	SpanGoTo      = "engine.goto"
	SpanAutoSlide = "engine.autoslide"
	SpanRestore   = "engine.restore"
	SpanLocation  = "engine.location"
	SpanSync      = "engine.sync"
	SpanOverview  = "engine.overview"
)
