// Package pubsub provides a generic publish/subscribe event system used to
// fan engine notifications and log lines out to asynchronous listeners.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// CreatedEvent marks a newly produced payload (log lines, loaded decks).
	CreatedEvent EventType = "created"
	// UpdatedEvent marks a changed payload (reloaded deck file).
	UpdatedEvent EventType = "updated"
	// NavigationEvent carries slide-changed and state-tag notifications.
	NavigationEvent EventType = "navigation"
	// FragmentEvent carries fragment shown/hidden notifications.
	FragmentEvent EventType = "fragment"
	// ModeEvent carries overview, pause and autoslide mode changes.
	ModeEvent EventType = "mode"
	// MediaEvent carries non-fatal media failures.
	MediaEvent EventType = "media"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
