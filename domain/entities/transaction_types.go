package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the system
const (
	// Credit transactions
	TransactionTypeLoanTaken     TransactionType = "loan_taken"
	TransactionTypeLoanRepayment TransactionType = "loan_repayment"

	// Transfer transactions
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"

	// Depalka transactions
	TransactionTypeWagerStake  TransactionType = "wager_stake"
	TransactionTypeWagerPayout TransactionType = "wager_payout"

	// System transactions
	TransactionTypeInitial         TransactionType = "initial"
	TransactionTypeSalary          TransactionType = "salary"
	TransactionTypeAdminAdjustment TransactionType = "admin_adjustment"
)

// IsCreditType returns true if the transaction belongs to a loan
func (tt TransactionType) IsCreditType() bool {
	return tt == TransactionTypeLoanTaken ||
		tt == TransactionTypeLoanRepayment
}

// IsTransferType returns true if the transaction type represents a transfer
func (tt TransactionType) IsTransferType() bool {
	return tt == TransactionTypeTransferIn ||
		tt == TransactionTypeTransferOut
}

// IsWagerType returns true if the transaction type is part of a Depalka game
func (tt TransactionType) IsWagerType() bool {
	return tt == TransactionTypeWagerStake ||
		tt == TransactionTypeWagerPayout
}

// IsSystemGenerated returns true if the transaction type is system-generated
func (tt TransactionType) IsSystemGenerated() bool {
	return tt == TransactionTypeInitial ||
		tt == TransactionTypeSalary ||
		tt == TransactionTypeAdminAdjustment
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}
