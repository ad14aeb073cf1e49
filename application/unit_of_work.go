package application

import (
	"context"

	"townbank/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	AccountRepository() interfaces.AccountRepository
	BalanceHistoryRepository() interfaces.BalanceHistoryRepository
	CreditRepository() interfaces.CreditRepository
	TransferRepository() interfaces.TransferRepository
	WagerRepository() interfaces.WagerRepository
	CycleRepository() interfaces.CycleRepository
	PayrollRepository() interfaces.PayrollRepository
	CreatorSecretRepository() interfaces.CreatorSecretRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create returns a fresh, not yet started UnitOfWork
	Create() UnitOfWork
}
