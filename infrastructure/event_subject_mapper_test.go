package infrastructure

import (
	"testing"

	"townbank/domain/events"

	"github.com/stretchr/testify/assert"
)

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	mapper := NewEventSubjectMapper()

	allTypes := []events.EventType{
		events.EventTypeBalanceChange,
		events.EventTypeAccountCreated,
		events.EventTypeCreditTaken,
		events.EventTypeCreditRepaid,
		events.EventTypeTransferCompleted,
		events.EventTypeWagerSessionStateChange,
		events.EventTypeWagerResolved,
		events.EventTypeCycleAdvanced,
		events.EventTypePrivilegedAction,
	}

	for _, eventType := range allTypes {
		t.Run(string(eventType), func(t *testing.T) {
			subject := mapper.MapEventToSubject(eventType)
			assert.NotContains(t, subject, "unknown")

			back, ok := mapper.MapSubjectToEventType(subject)
			assert.True(t, ok)
			assert.Equal(t, eventType, back)
		})
	}

	assert.Len(t, mapper.GetAllSubjects(), len(allTypes)+1)
}

func TestEventSubjectMapper_Unknown(t *testing.T) {
	mapper := NewEventSubjectMapper()

	assert.Equal(t, "bank.unknown.mystery", mapper.MapEventToSubject(events.EventType("mystery")))

	_, ok := mapper.MapSubjectToEventType("bank.nothing")
	assert.False(t, ok)
}
