package infrastructure

import (
	"context"
	"fmt"

	"townbank/application"
	"townbank/database"
	"townbank/domain/events"
	"townbank/domain/interfaces"
	"townbank/repository"

	log "github.com/sirupsen/logrus"
)

// DomainEventPublisher publishes committed events and accepts in-process handlers
type DomainEventPublisher interface {
	interfaces.EventPublisher
	LocalHandlerRegistry
}

// UnitOfWorkFactory implements the application.UnitOfWorkFactory interface.
// It pairs every database transaction with its own transactional publisher.
type UnitOfWorkFactory struct {
	repoFactory    *repository.UnitOfWorkFactory
	eventPublisher DomainEventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher DomainEventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers a handler invoked after commit for events of the type
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler LocalHandler) {
	f.eventPublisher.RegisterLocalHandler(eventType, handler)
}

// Create creates a new UnitOfWork with a transactional event publisher
func (f *UnitOfWorkFactory) Create() application.UnitOfWork {
	return f.repoFactory.CreateWithPublisher(NewNATSTransactionalPublisher(f.eventPublisher))
}

// NewEventPublisher connects to NATS when servers are configured and falls back to local delivery otherwise.
// The returned function releases the connection.
func NewEventPublisher(ctx context.Context, servers string) (DomainEventPublisher, func(), error) {
	if servers == "" {
		log.Info("NATS_SERVERS not set, events are delivered in-process only")
		return NewLocalEventPublisher(), func() {}, nil
	}

	client := NewNATSClient(servers)
	if err := client.Connect(ctx); err != nil {
		return nil, nil, err
	}

	publisher := NewNATSEventPublisher(client)
	if err := publisher.EnsureDomainEventStream(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ensure domain event stream: %w", err)
	}

	return publisher, func() { _ = client.Close() }, nil
}
