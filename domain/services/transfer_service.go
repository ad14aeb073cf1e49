package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"townbank/config"
	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/domain/events"
	"townbank/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type transferService struct {
	accountRepo    interfaces.AccountRepository
	transferRepo   interfaces.TransferRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewTransferService creates a new transfer service
func NewTransferService(accountRepo interfaces.AccountRepository, transferRepo interfaces.TransferRepository, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher) interfaces.TransferService {
	return &transferService{
		accountRepo:    accountRepo,
		transferRepo:   transferRepo,
		ledger:         NewLedgerService(accountRepo, balanceHistoryRepo, eventPublisher),
		eventPublisher: eventPublisher,
	}
}

// Transfer moves money between two accounts. Identical requests are not deduplicated.
func (s *transferService) Transfer(ctx context.Context, senderID int64, receiverNickname string, amount int64) (*entities.TransferResult, error) {
	cfg := config.Get()
	if amount < cfg.TransferMin || amount > cfg.TransferMax {
		return nil, apperrors.ErrInvalidAmount.WithMessage("transfer amount must be between %d and %d", cfg.TransferMin, cfg.TransferMax)
	}

	receiver, err := s.accountRepo.GetByNickname(ctx, strings.TrimSpace(receiverNickname))
	if err != nil {
		return nil, fmt.Errorf("failed to get receiver: %w", err)
	}
	if receiver == nil || !receiver.Active {
		return nil, apperrors.ErrReceiverNotFound
	}
	if receiver.ID == senderID {
		return nil, apperrors.ErrSelfTransferForbidden
	}

	// Both rows are locked in id order so opposite transfers cannot deadlock
	locked, err := s.accountRepo.LockAccounts(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	sender, ok := locked[senderID]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	if !sender.Active {
		return nil, apperrors.ErrAccountInactive
	}
	if _, ok := locked[receiver.ID]; !ok {
		return nil, apperrors.ErrReceiverNotFound
	}

	schedule := entities.FeeSchedule{Threshold: cfg.TransferFeeThreshold, Rate: cfg.TransferFeeRate}
	transfer := &entities.Transfer{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Amount:     amount,
		Fee:        schedule.FeeFor(amount),
		Kind:       entities.TransferKindPeer,
		CreatedAt:  time.Now(),
	}
	if !sender.HasSufficientBalance(transfer.TotalDebited()) {
		return nil, apperrors.ErrInsufficientBalance.WithMessage("transfer needs %d including a fee of %d", transfer.TotalDebited(), transfer.Fee)
	}

	if err := s.transferRepo.Create(ctx, transfer); err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	relatedID, relatedType := entities.NewRelatedRef(transfer.ID, entities.RelatedTypeTransfer)
	senderHistory, err := debit(ctx, s.ledger, entities.BalanceAdjustment{
		AccountID:       senderID,
		Delta:           -transfer.TotalDebited(),
		TransactionType: entities.TransactionTypeTransferOut,
		Metadata: map[string]any{
			"transfer_id":       transfer.ID,
			"receiver_id":       receiver.ID,
			"receiver_nickname": receiver.Nickname,
			"amount":            amount,
			"fee":               transfer.Fee,
		},
		RelatedID:   relatedID,
		RelatedType: relatedType,
	})
	if err != nil {
		return nil, err
	}

	receiverHistory, err := s.ledger.AdjustBalance(ctx, entities.BalanceAdjustment{
		AccountID:       receiver.ID,
		Delta:           amount,
		TransactionType: entities.TransactionTypeTransferIn,
		Metadata: map[string]any{
			"transfer_id":     transfer.ID,
			"sender_id":       senderID,
			"sender_nickname": sender.Nickname,
		},
		RelatedID:   relatedID,
		RelatedType: relatedType,
	})
	if err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.TransferCompletedEvent{
		TransferID: transfer.ID,
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Amount:     amount,
		Fee:        transfer.Fee,
		Kind:       transfer.Kind,
	}); err != nil {
		log.WithError(err).Error("Failed to publish transfer completed event")
	}

	log.WithFields(log.Fields{
		"transferID": transfer.ID,
		"senderID":   senderID,
		"receiverID": receiver.ID,
		"amount":     amount,
		"fee":        transfer.Fee,
	}).Info("Transfer completed")

	return &entities.TransferResult{
		Transfer:        transfer,
		SenderBalance:   senderHistory.BalanceAfter,
		ReceiverBalance: receiverHistory.BalanceAfter,
		Fee:             transfer.Fee,
	}, nil
}

func (s *transferService) ListTransfers(ctx context.Context, accountID int64, limit int) ([]*entities.Transfer, error) {
	transfers, err := s.transferRepo.GetByAccount(ctx, accountID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, nil
}
