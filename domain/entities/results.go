package entities

// LoanResult is returned when a loan is taken
type LoanResult struct {
	Credit     *Credit
	Snapshot   CreditSnapshot
	NewBalance int64
}

// RepaymentResult is returned after a repayment
type RepaymentResult struct {
	Credit     *Credit
	Snapshot   CreditSnapshot
	NewBalance int64
	FullyPaid  bool
}

// TransferResult is returned after a completed transfer
type TransferResult struct {
	Transfer        *Transfer
	SenderBalance   int64
	ReceiverBalance int64
	Fee             int64
}

// StakeResult is returned when a player commits a stake
type StakeResult struct {
	Session    *WagerSession
	Game       *WagerGame
	NewBalance int64
}

// ResolutionResult is returned when a game is resolved
type ResolutionResult struct {
	Session    *WagerSession
	Game       *WagerGame
	NewBalance int64
	Payout     int64
	Transfer   *Transfer // Audit record, nil on a loss
}
