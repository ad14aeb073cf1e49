package infrastructure

import (
	"context"
	"errors"
	"testing"

	"townbank/domain/events"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMessenger struct {
	mock.Mock
}

func (m *mockMessenger) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func TestFormatAuditMessage(t *testing.T) {
	target := int64(12)
	msg := formatAuditMessage(events.PrivilegedActionEvent{
		ActorID:  3,
		Action:   "force_adjust_balance",
		TargetID: &target,
		Details:  map[string]any{"reason": "refund", "delta": int64(250)},
	})

	assert.Equal(t, "**force_adjust_balance** by account 3 on account 12\n• delta: `250`\n• reason: `refund`", msg)
}

func TestDiscordAuditSink_PostsPrivilegedActions(t *testing.T) {
	messenger := new(mockMessenger)
	sink := &DiscordAuditSink{session: messenger, channelID: "audit"}
	local := NewLocalEventPublisher()
	sink.Register(local)

	messenger.On("ChannelMessageSend", "audit", "**issue_creator_secret** by account 1").
		Return(&discordgo.Message{ID: "m1"}, nil).Once()

	require.NoError(t, local.Publish(events.PrivilegedActionEvent{ActorID: 1, Action: "issue_creator_secret"}))
	messenger.AssertExpectations(t)
}

func TestDiscordAuditSink_SendFailure(t *testing.T) {
	messenger := new(mockMessenger)
	sink := &DiscordAuditSink{session: messenger, channelID: "audit"}

	messenger.On("ChannelMessageSend", "audit", mock.Anything).Return(nil, errors.New("rate limited"))

	err := sink.handle(context.Background(), events.PrivilegedActionEvent{ActorID: 1, Action: "promote_mayor"})
	assert.Error(t, err)
}
