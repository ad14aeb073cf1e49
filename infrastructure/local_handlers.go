package infrastructure

import (
	"context"
	"sync"

	"townbank/domain/events"

	log "github.com/sirupsen/logrus"
)

// LocalHandler reacts in-process to a committed domain event
type LocalHandler func(ctx context.Context, event events.Event) error

// LocalHandlerRegistry accepts in-process event handlers
type LocalHandlerRegistry interface {
	RegisterLocalHandler(eventType events.EventType, handler LocalHandler)
}

// localDispatcher fans committed events out to registered handlers
type localDispatcher struct {
	mu       sync.RWMutex
	handlers map[events.EventType][]LocalHandler
}

func newLocalDispatcher() *localDispatcher {
	return &localDispatcher{
		handlers: make(map[events.EventType][]LocalHandler),
	}
}

// RegisterLocalHandler registers a handler invoked for every published event of the type
func (d *localDispatcher) RegisterLocalHandler(eventType events.EventType, handler LocalHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// dispatch runs every handler for the event; failures are logged and do not stop the others
func (d *localDispatcher) dispatch(ctx context.Context, event events.Event) {
	d.mu.RLock()
	handlers := d.handlers[event.Type()]
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Local event handler failed")
		}
	}
}
