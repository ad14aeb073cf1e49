package services

import (
	"context"
	"fmt"
	"time"

	"townbank/config"
	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/domain/events"
	"townbank/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type creditService struct {
	accountRepo    interfaces.AccountRepository
	creditRepo     interfaces.CreditRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewCreditService creates a new credit service
func NewCreditService(accountRepo interfaces.AccountRepository, creditRepo interfaces.CreditRepository, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher) interfaces.CreditService {
	return &creditService{
		accountRepo:    accountRepo,
		creditRepo:     creditRepo,
		ledger:         NewLedgerService(accountRepo, balanceHistoryRepo, eventPublisher),
		eventPublisher: eventPublisher,
	}
}

func (s *creditService) TakeLoan(ctx context.Context, accountID int64, principal int64) (*entities.LoanResult, error) {
	cfg := config.Get()
	if principal <= 0 {
		return nil, apperrors.ErrInvalidAmount.WithMessage("principal must be positive")
	}
	if cfg.MaxLoanPrincipal > 0 && principal > cfg.MaxLoanPrincipal {
		return nil, apperrors.ErrInvalidAmount.WithMessage("principal cannot exceed %d", cfg.MaxLoanPrincipal)
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, apperrors.ErrAccountNotFound
	}
	if !account.Active {
		return nil, apperrors.ErrAccountInactive
	}

	now := time.Now()
	credit := &entities.Credit{
		AccountID: accountID,
		Principal: principal,
		DailyRate: cfg.CreditDailyRate,
		CreatedAt: now,
	}
	if err := s.creditRepo.Create(ctx, credit); err != nil {
		return nil, fmt.Errorf("failed to create credit: %w", err)
	}

	relatedID, relatedType := entities.NewRelatedRef(credit.ID, entities.RelatedTypeCredit)
	history, err := s.ledger.AdjustBalance(ctx, entities.BalanceAdjustment{
		AccountID:       accountID,
		Delta:           principal,
		TransactionType: entities.TransactionTypeLoanTaken,
		Metadata: map[string]any{
			"credit_id":  credit.ID,
			"daily_rate": credit.DailyRate,
		},
		RelatedID:   relatedID,
		RelatedType: relatedType,
	})
	if err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.CreditTakenEvent{
		CreditID:  credit.ID,
		AccountID: accountID,
		Principal: principal,
		DailyRate: credit.DailyRate,
	}); err != nil {
		log.WithError(err).Error("Failed to publish credit taken event")
	}

	log.WithFields(log.Fields{
		"creditID":  credit.ID,
		"accountID": accountID,
		"principal": principal,
	}).Info("Loan taken")

	return &entities.LoanResult{
		Credit:     credit,
		Snapshot:   credit.Snapshot(now),
		NewBalance: history.BalanceAfter,
	}, nil
}

func (s *creditService) Repay(ctx context.Context, creditID, payerID int64, amount int64) (*entities.RepaymentResult, error) {
	// The row lock serializes concurrent repayments of the same credit
	credit, err := s.creditRepo.GetByIDForUpdate(ctx, creditID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credit: %w", err)
	}
	if credit == nil {
		return nil, apperrors.ErrCreditNotFound
	}
	if credit.AccountID != payerID {
		return nil, apperrors.ErrNotCreditOwner
	}
	if credit.IsPaid {
		return nil, apperrors.ErrCreditAlreadyPaid
	}
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount.WithMessage("repayment must be positive")
	}

	payer, err := s.accountRepo.GetByIDForUpdate(ctx, payerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if payer == nil {
		return nil, apperrors.ErrAccountNotFound
	}
	if !payer.HasSufficientBalance(amount) {
		return nil, apperrors.ErrInsufficientBalance
	}

	now := time.Now()
	payable := credit.PayableRemaining(now)
	if amount > payable {
		return nil, apperrors.ErrAmountExceedsDebt.WithMessage("remaining debt is %d", payable)
	}

	fullyPaid := credit.ApplyPayment(amount, now)
	if err := s.creditRepo.UpdatePayment(ctx, credit); err != nil {
		return nil, fmt.Errorf("failed to update credit: %w", err)
	}

	relatedID, relatedType := entities.NewRelatedRef(credit.ID, entities.RelatedTypeCredit)
	history, err := debit(ctx, s.ledger, entities.BalanceAdjustment{
		AccountID:       payerID,
		Delta:           -amount,
		TransactionType: entities.TransactionTypeLoanRepayment,
		Metadata: map[string]any{
			"credit_id":  credit.ID,
			"fully_paid": fullyPaid,
		},
		RelatedID:   relatedID,
		RelatedType: relatedType,
	})
	if err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.CreditRepaidEvent{
		CreditID:   credit.ID,
		AccountID:  payerID,
		Amount:     amount,
		PaidAmount: credit.PaidAmount,
		FullyPaid:  fullyPaid,
	}); err != nil {
		log.WithError(err).Error("Failed to publish credit repaid event")
	}

	log.WithFields(log.Fields{
		"creditID":  credit.ID,
		"accountID": payerID,
		"amount":    amount,
		"fullyPaid": fullyPaid,
	}).Info("Credit repayment applied")

	return &entities.RepaymentResult{
		Credit:     credit,
		Snapshot:   credit.Snapshot(now),
		NewBalance: history.BalanceAfter,
		FullyPaid:  fullyPaid,
	}, nil
}

func (s *creditService) GetCredit(ctx context.Context, accountID, creditID int64) (*entities.Credit, error) {
	credit, err := s.creditRepo.GetByID(ctx, creditID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credit: %w", err)
	}
	if credit == nil || credit.AccountID != accountID {
		return nil, apperrors.ErrCreditNotFound
	}
	return credit, nil
}

func (s *creditService) ListCredits(ctx context.Context, accountID int64, includePaid bool) ([]*entities.Credit, error) {
	credits, err := s.creditRepo.GetByAccount(ctx, accountID, includePaid)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	return credits, nil
}
