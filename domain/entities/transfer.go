package entities

import (
	"math"
	"time"
)

// TransferKind distinguishes peer transfers from audit records of wager payouts
type TransferKind string

const (
	TransferKindPeer        TransferKind = "peer"
	TransferKindWagerPayout TransferKind = "wager_payout"
)

// Transfer is an immutable record of currency moved between two accounts
type Transfer struct {
	ID         int64        `db:"id"`
	SenderID   int64        `db:"sender_id"`
	ReceiverID int64        `db:"receiver_id"`
	Amount     int64        `db:"amount"`
	Fee        int64        `db:"fee"`
	Kind       TransferKind `db:"kind"`
	RelatedID  *int64       `db:"related_id"`
	CreatedAt  time.Time    `db:"created_at"`
}

// TotalDebited returns what the sender pays including the fee
func (t *Transfer) TotalDebited() int64 {
	return t.Amount + t.Fee
}

// FeeSchedule computes transfer fees: free up to the threshold, then a rounded
// percentage of the whole amount with a minimum of 1
type FeeSchedule struct {
	Threshold int64
	Rate      float64
}

// DefaultFeeSchedule returns the standard schedule (free up to 1000, then 0.5%)
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{Threshold: 1000, Rate: 0.005}
}

// FeeFor returns the fee charged on top of amount
func (f FeeSchedule) FeeFor(amount int64) int64 {
	if amount <= f.Threshold {
		return 0
	}
	fee := int64(math.Round(float64(amount) * f.Rate))
	if fee < 1 {
		return 1
	}
	return fee
}
