package entities

import (
	"errors"
	"time"
)

// RelatedType represents what type of entity the related_id refers to
type RelatedType string

const (
	RelatedTypeCredit     RelatedType = "credit"
	RelatedTypeTransfer   RelatedType = "transfer"
	RelatedTypeWagerGame  RelatedType = "wager_game"
	RelatedTypePayrollRun RelatedType = "payroll_run"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	AccountID           int64           `db:"account_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedID           *int64          `db:"related_id"`
	RelatedType         *RelatedType    `db:"related_type"`
	CreatedAt           time.Time       `db:"created_at"`
}

// NewRelatedRef builds the related id/type pair for a history entry
func NewRelatedRef(id int64, relatedType RelatedType) (*int64, *RelatedType) {
	return &id, &relatedType
}

// IsPositiveChange returns true if the change amount is positive
func (bh *BalanceHistory) IsPositiveChange() bool {
	return bh.ChangeAmount > 0
}

// IsNegativeChange returns true if the change amount is negative
func (bh *BalanceHistory) IsNegativeChange() bool {
	return bh.ChangeAmount < 0
}

// GetTransactionDescription returns a human-readable description of the transaction
func (bh *BalanceHistory) GetTransactionDescription() string {
	switch bh.TransactionType {
	case TransactionTypeLoanTaken:
		return "Loan taken"
	case TransactionTypeLoanRepayment:
		return "Loan repayment"
	case TransactionTypeTransferIn:
		return "Transfer received"
	case TransactionTypeTransferOut:
		return "Transfer sent"
	case TransactionTypeWagerStake:
		return "Depalka stake"
	case TransactionTypeWagerPayout:
		return "Depalka payout"
	case TransactionTypeInitial:
		return "Initial balance"
	case TransactionTypeSalary:
		return "Salary"
	case TransactionTypeAdminAdjustment:
		return "Balance correction"
	default:
		return string(bh.TransactionType)
	}
}

// ValidateTransaction performs basic validation on the transaction
func (bh *BalanceHistory) ValidateTransaction() error {
	if bh.ChangeAmount == 0 && bh.TransactionType != TransactionTypeInitial {
		return errors.New("change amount cannot be zero")
	}

	if bh.BalanceAfter != bh.BalanceBefore+bh.ChangeAmount {
		return errors.New("balance calculation is inconsistent")
	}

	if bh.BalanceAfter < 0 {
		return errors.New("balance cannot become negative")
	}

	return nil
}

// BalanceAdjustment is a request to change one account's balance
type BalanceAdjustment struct {
	AccountID       int64
	Delta           int64
	TransactionType TransactionType
	Metadata        map[string]any
	RelatedID       *int64
	RelatedType     *RelatedType
}
