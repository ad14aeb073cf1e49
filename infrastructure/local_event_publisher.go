package infrastructure

import (
	"context"

	"townbank/domain/events"
)

// LocalEventPublisher only delivers events to in-process handlers.
// It is used when no NATS servers are configured.
type LocalEventPublisher struct {
	*localDispatcher
}

// NewLocalEventPublisher creates a publisher without a message bus
func NewLocalEventPublisher() *LocalEventPublisher {
	return &LocalEventPublisher{localDispatcher: newLocalDispatcher()}
}

// Publish runs the local handlers for the event
func (p *LocalEventPublisher) Publish(event events.Event) error {
	p.dispatch(context.Background(), event)
	return nil
}
