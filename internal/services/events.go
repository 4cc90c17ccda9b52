package services

import "fixrx_backend/internal/ws"

// EventPublisher is the real-time sink for lifecycle events. The ws
// hub implements it; tests plug in a recorder. Publishing is always
// fire-and-forget.
type EventPublisher interface {
	Publish(event ws.Event)
}

// noopPublisher is used when no hub is wired.
type noopPublisher struct{}

func (noopPublisher) Publish(ws.Event) {}

// NewNoopPublisher returns a publisher that discards all events.
func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}
