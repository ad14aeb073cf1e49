package application

import (
	"context"

	"townbank/domain/entities"
	"townbank/domain/interfaces"
	"townbank/domain/services"
)

// CreditHandler orchestrates loans
type CreditHandler struct {
	uowFactory UnitOfWorkFactory
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(uowFactory UnitOfWorkFactory) *CreditHandler {
	return &CreditHandler{uowFactory: uowFactory}
}

func (h *CreditHandler) service(uow UnitOfWork) interfaces.CreditService {
	return services.NewCreditService(uow.AccountRepository(), uow.CreditRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
}

// TakeLoan creates a credit and pays out the principal
func (h *CreditHandler) TakeLoan(ctx context.Context, accountID, principal int64) (*entities.LoanResult, error) {
	return inTransaction(ctx, h.uowFactory, "take loan", func(uow UnitOfWork) (*entities.LoanResult, error) {
		return h.service(uow).TakeLoan(ctx, accountID, principal)
	})
}

// Repay applies a payment against a credit
func (h *CreditHandler) Repay(ctx context.Context, creditID, payerID, amount int64) (*entities.RepaymentResult, error) {
	return inTransaction(ctx, h.uowFactory, "repay credit", func(uow UnitOfWork) (*entities.RepaymentResult, error) {
		return h.service(uow).Repay(ctx, creditID, payerID, amount)
	})
}

// GetCredit returns one credit of the account
func (h *CreditHandler) GetCredit(ctx context.Context, accountID, creditID int64) (*entities.Credit, error) {
	return readOnly(ctx, h.uowFactory, "get credit", func(uow UnitOfWork) (*entities.Credit, error) {
		return h.service(uow).GetCredit(ctx, accountID, creditID)
	})
}

// ListCredits returns the credits of the account
func (h *CreditHandler) ListCredits(ctx context.Context, accountID int64, includePaid bool) ([]*entities.Credit, error) {
	return readOnly(ctx, h.uowFactory, "list credits", func(uow UnitOfWork) ([]*entities.Credit, error) {
		return h.service(uow).ListCredits(ctx, accountID, includePaid)
	})
}
