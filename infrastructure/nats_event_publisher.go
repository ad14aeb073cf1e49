package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"townbank/domain/events"
	"townbank/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sourceService = "townbank"

// EventEnvelope is the JSON document written to the bus for every domain event
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher publishes domain events to NATS after running local handlers
type NATSEventPublisher struct {
	*localDispatcher
	client *NATSClient
	mapper *EventSubjectMapper
}

// NewNATSEventPublisher creates a publisher backed by the given client
func NewNATSEventPublisher(client *NATSClient) *NATSEventPublisher {
	return &NATSEventPublisher{
		localDispatcher: newLocalDispatcher(),
		client:          client,
		mapper:          NewEventSubjectMapper(),
	}
}

// Publish delivers the event locally, then writes its envelope to the mapped subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx := context.Background()

	p.dispatch(ctx, event)

	subject := p.mapper.MapEventToSubject(event.Type())
	data, err := newEnvelope(event)
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, subject, data); err != nil {
		// Publishing outside the stream's subjects is not fatal for the caller
		if strings.Contains(err.Error(), "no response from stream") {
			log.WithField("subject", subject).Warn("No stream captured event")
			return nil
		}
		return fmt.Errorf("failed to publish %s event: %w", event.Type(), err)
	}

	observability.GetMetrics().RecordNATSMessagePublished(string(event.Type()))

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"subject":   subject,
	}).Debug("Published event to NATS")
	return nil
}

// EnsureDomainEventStream creates the stream capturing every bank subject
func (p *NATSEventPublisher) EnsureDomainEventStream() error {
	return p.client.ensureStream(DomainEventStream, p.mapper.GetAllSubjects())
}

func newEnvelope(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event.Type(), err)
	}

	data, err := json.Marshal(EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}
