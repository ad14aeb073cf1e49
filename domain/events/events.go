package events

import "townbank/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange           EventType = "balance_change"
	EventTypeAccountCreated          EventType = "account_created"
	EventTypeCreditTaken             EventType = "credit_taken"
	EventTypeCreditRepaid            EventType = "credit_repaid"
	EventTypeTransferCompleted       EventType = "transfer_completed"
	EventTypeWagerSessionStateChange EventType = "wager_session_state_change"
	EventTypeWagerResolved           EventType = "wager_resolved"
	EventTypeCycleAdvanced           EventType = "cycle_advanced"
	EventTypePrivilegedAction        EventType = "privileged_action"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID       int64
	OldBalance      int64
	NewBalance      int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a newly registered account
type AccountCreatedEvent struct {
	AccountID      int64
	Login          string
	Nickname       string
	InitialBalance int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// CreditTakenEvent represents a new loan
type CreditTakenEvent struct {
	CreditID  int64
	AccountID int64
	Principal int64
	DailyRate float64
}

func (e CreditTakenEvent) Type() EventType {
	return EventTypeCreditTaken
}

// CreditRepaidEvent represents a repayment against a loan
type CreditRepaidEvent struct {
	CreditID   int64
	AccountID  int64
	Amount     int64
	PaidAmount int64
	FullyPaid  bool
}

func (e CreditRepaidEvent) Type() EventType {
	return EventTypeCreditRepaid
}

// TransferCompletedEvent represents money moved between two accounts
type TransferCompletedEvent struct {
	TransferID int64
	SenderID   int64
	ReceiverID int64
	Amount     int64
	Fee        int64
	Kind       entities.TransferKind
}

func (e TransferCompletedEvent) Type() EventType {
	return EventTypeTransferCompleted
}

// WagerSessionStateChangeEvent represents a Depalka session transition
type WagerSessionStateChangeEvent struct {
	SessionID int64
	StaffID   int64
	PlayerID  int64
	OldState  string
	NewState  string
}

func (e WagerSessionStateChangeEvent) Type() EventType {
	return EventTypeWagerSessionStateChange
}

// WagerResolvedEvent represents a drawn Depalka game
type WagerResolvedEvent struct {
	GameID     int64
	SessionID  int64
	PlayerID   int64
	StaffID    int64
	Stake      int64
	Outcome    entities.WagerOutcome
	Multiplier float64
	Payout     int64
}

func (e WagerResolvedEvent) Type() EventType {
	return EventTypeWagerResolved
}

// CycleAdvancedEvent represents a day/night transition
type CycleAdvancedEvent struct {
	Direction    entities.CycleDirection
	IsDay        bool
	ActorID      *int64
	PayrollRunID *int64
	TotalPaid    int64
}

func (e CycleAdvancedEvent) Type() EventType {
	return EventTypeCycleAdvanced
}

// PrivilegedActionEvent records an action gated behind the mayor or creator role
type PrivilegedActionEvent struct {
	ActorID  int64
	Action   string
	TargetID *int64
	Details  map[string]any
}

func (e PrivilegedActionEvent) Type() EventType {
	return EventTypePrivilegedAction
}
