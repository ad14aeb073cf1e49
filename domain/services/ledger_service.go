package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/domain/interfaces"
	"townbank/domain/utils"
)

type ledgerService struct {
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service
func NewLedgerService(accountRepo interfaces.AccountRepository, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher) interfaces.LedgerService {
	return &ledgerService{
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// AdjustBalance applies the delta against the latest committed balance and records the history entry.
// Must be called inside the unit of work that writes the justifying record.
func (s *ledgerService) AdjustBalance(ctx context.Context, adjustment entities.BalanceAdjustment) (*entities.BalanceHistory, error) {
	if adjustment.Delta == 0 {
		return nil, apperrors.ErrInvalidAmount.WithMessage("balance adjustment cannot be zero")
	}

	newBalance, err := s.accountRepo.AdjustBalance(ctx, adjustment.AccountID, adjustment.Delta)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) || errors.Is(err, apperrors.ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to adjust balance: %w", err)
	}

	history := &entities.BalanceHistory{
		AccountID:           adjustment.AccountID,
		BalanceBefore:       newBalance - adjustment.Delta,
		BalanceAfter:        newBalance,
		ChangeAmount:        adjustment.Delta,
		TransactionType:     adjustment.TransactionType,
		TransactionMetadata: adjustment.Metadata,
		RelatedID:           adjustment.RelatedID,
		RelatedType:         adjustment.RelatedType,
		CreatedAt:           time.Now(),
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}

	return history, nil
}

// debit is a ledger adjustment that reports a short balance as ErrInsufficientBalance
func debit(ctx context.Context, ledger interfaces.LedgerService, adjustment entities.BalanceAdjustment) (*entities.BalanceHistory, error) {
	history, err := ledger.AdjustBalance(ctx, adjustment)
	if errors.Is(err, apperrors.ErrInsufficientFunds) {
		return nil, apperrors.ErrInsufficientBalance
	}
	return history, err
}
