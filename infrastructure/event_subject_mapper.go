package infrastructure

import (
	"fmt"

	"townbank/domain/events"
)

// Subjects for domain events on the bus
const (
	SubjectBalanceChanged      = "bank.accounts.balance_changed"
	SubjectAccountCreated      = "bank.accounts.created"
	SubjectCreditTaken         = "bank.credits.taken"
	SubjectCreditRepaid        = "bank.credits.repaid"
	SubjectTransferCompleted   = "bank.transfers.completed"
	SubjectWagerSessionChanged = "bank.wagers.session_state_changed"
	SubjectWagerResolved       = "bank.wagers.resolved"
	SubjectCycleAdvanced       = "bank.cycle.advanced"
	SubjectPrivilegedAction    = "bank.admin.privileged_action"
)

// DomainEventStream is the JetStream stream holding every bank subject
const DomainEventStream = "bank_events"

// EventSubjectMapper maps domain event types to NATS subjects
type EventSubjectMapper struct {
	eventToSubject map[events.EventType]string
	subjectToEvent map[string]events.EventType
}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	mapper := &EventSubjectMapper{
		eventToSubject: map[events.EventType]string{
			events.EventTypeBalanceChange:           SubjectBalanceChanged,
			events.EventTypeAccountCreated:          SubjectAccountCreated,
			events.EventTypeCreditTaken:             SubjectCreditTaken,
			events.EventTypeCreditRepaid:            SubjectCreditRepaid,
			events.EventTypeTransferCompleted:       SubjectTransferCompleted,
			events.EventTypeWagerSessionStateChange: SubjectWagerSessionChanged,
			events.EventTypeWagerResolved:           SubjectWagerResolved,
			events.EventTypeCycleAdvanced:           SubjectCycleAdvanced,
			events.EventTypePrivilegedAction:        SubjectPrivilegedAction,
		},
		subjectToEvent: make(map[string]events.EventType),
	}

	for eventType, subject := range mapper.eventToSubject {
		mapper.subjectToEvent[subject] = eventType
	}

	return mapper
}

// MapEventToSubject returns the subject for an event type
func (m *EventSubjectMapper) MapEventToSubject(eventType events.EventType) string {
	if subject, ok := m.eventToSubject[eventType]; ok {
		return subject
	}
	return fmt.Sprintf("bank.unknown.%s", eventType)
}

// MapSubjectToEventType returns the event type for a subject
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) (events.EventType, bool) {
	eventType, ok := m.subjectToEvent[subject]
	return eventType, ok
}

// GetAllSubjects returns every subject the stream must capture
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(m.eventToSubject)+1)
	for _, subject := range m.eventToSubject {
		subjects = append(subjects, subject)
	}
	return append(subjects, "bank.unknown.>")
}
