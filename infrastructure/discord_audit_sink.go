package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"townbank/domain/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// channelMessenger is the part of the Discord session the audit sink needs
type channelMessenger interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordAuditSink posts privileged actions to a Discord channel
type DiscordAuditSink struct {
	session   channelMessenger
	channelID string
}

// NewDiscordAuditSink creates a sink authenticated with the bot token
func NewDiscordAuditSink(token, channelID string) (*DiscordAuditSink, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &DiscordAuditSink{session: session, channelID: channelID}, nil
}

// Register subscribes the sink to privileged action events
func (s *DiscordAuditSink) Register(registry LocalHandlerRegistry) {
	registry.RegisterLocalHandler(events.EventTypePrivilegedAction, s.handle)
}

func (s *DiscordAuditSink) handle(_ context.Context, event events.Event) error {
	e, ok := event.(events.PrivilegedActionEvent)
	if !ok {
		return nil
	}

	if _, err := s.session.ChannelMessageSend(s.channelID, formatAuditMessage(e)); err != nil {
		return fmt.Errorf("failed to post audit message: %w", err)
	}

	log.WithFields(log.Fields{
		"action":  e.Action,
		"actorID": e.ActorID,
	}).Debug("Posted audit message")
	return nil
}

func formatAuditMessage(e events.PrivilegedActionEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** by account %d", e.Action, e.ActorID)
	if e.TargetID != nil {
		fmt.Fprintf(&b, " on account %d", *e.TargetID)
	}

	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n• %s: `%v`", k, e.Details[k])
	}
	return b.String()
}
