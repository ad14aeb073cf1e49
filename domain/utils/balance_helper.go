package utils

import (
	"context"
	"fmt"

	"townbank/domain/entities"
	"townbank/domain/events"
	"townbank/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange records a balance history entry and emits appropriate events.
// This is the single entry point for all balance history in the system.
func RecordBalanceChange(ctx context.Context, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher, history *entities.BalanceHistory) error {
	if err := history.ValidateTransaction(); err != nil {
		return fmt.Errorf("invalid balance history entry: %w", err)
	}

	if err := balanceHistoryRepo.Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	event := events.BalanceChangeEvent{
		AccountID:       history.AccountID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	}
	log.WithFields(log.Fields{
		"accountID":       event.AccountID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	// Registration is the only source of initial entries
	if history.TransactionType == entities.TransactionTypeInitial {
		login, _ := history.TransactionMetadata["login"].(string)
		nickname, _ := history.TransactionMetadata["nickname"].(string)
		if login != "" {
			createdEvent := events.AccountCreatedEvent{
				AccountID:      history.AccountID,
				Login:          login,
				Nickname:       nickname,
				InitialBalance: history.BalanceAfter,
			}
			if err := eventPublisher.Publish(createdEvent); err != nil {
				log.WithError(err).Error("Failed to publish account created event")
			}
		}
	}

	return nil
}
