package application

import (
	"context"

	"townbank/domain/entities"
	"townbank/domain/interfaces"
	"townbank/domain/services"
)

// TransferHandler orchestrates peer transfers
type TransferHandler struct {
	uowFactory UnitOfWorkFactory
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(uowFactory UnitOfWorkFactory) *TransferHandler {
	return &TransferHandler{uowFactory: uowFactory}
}

func (h *TransferHandler) service(uow UnitOfWork) interfaces.TransferService {
	return services.NewTransferService(uow.AccountRepository(), uow.TransferRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
}

// Transfer moves money to the account holding the nickname
func (h *TransferHandler) Transfer(ctx context.Context, senderID int64, receiverNickname string, amount int64) (*entities.TransferResult, error) {
	return inTransaction(ctx, h.uowFactory, "transfer", func(uow UnitOfWork) (*entities.TransferResult, error) {
		return h.service(uow).Transfer(ctx, senderID, receiverNickname, amount)
	})
}

// ListTransfers returns transfers sent or received by the account
func (h *TransferHandler) ListTransfers(ctx context.Context, accountID int64, limit int) ([]*entities.Transfer, error) {
	return readOnly(ctx, h.uowFactory, "list transfers", func(uow UnitOfWork) ([]*entities.Transfer, error) {
		return h.service(uow).ListTransfers(ctx, accountID, limit)
	})
}
