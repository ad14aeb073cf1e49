package entities

import (
	"math"
	"time"
)

const (
	// DefaultDailyRate is the compound interest applied per started day
	DefaultDailyRate = 0.03

	// settlementEpsilon absorbs float noise when comparing whole-unit payments to derived debt
	settlementEpsilon = 1e-6
)

// Credit is a loan accruing compound daily interest until repaid.
// Owed and remaining amounts are derived from the stored fields and the current time.
type Credit struct {
	ID         int64      `db:"id"`
	AccountID  int64      `db:"account_id"`
	Principal  int64      `db:"principal"`
	DailyRate  float64    `db:"daily_rate"`
	PaidAmount int64      `db:"paid_amount"`
	IsPaid     bool       `db:"is_paid"`
	CreatedAt  time.Time  `db:"created_at"`
	PaidAt     *time.Time `db:"paid_at"`
}

// CreditSnapshot is the derived state of a credit at a point in time.
// Values are unrounded; presentation layers round them.
type CreditSnapshot struct {
	DaysElapsed      int
	TotalOwed        float64
	Remaining        float64
	PayableRemaining int64
	AsOf             time.Time
}

// DaysElapsed returns the number of started days since creation, at least 1
func (c *Credit) DaysElapsed(now time.Time) int {
	elapsed := now.Sub(c.CreatedAt)
	if elapsed <= 0 {
		return 1
	}
	days := int(math.Ceil(elapsed.Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// TotalOwed returns principal × (1 + rate)^days
func (c *Credit) TotalOwed(now time.Time) float64 {
	return float64(c.Principal) * math.Pow(1+c.DailyRate, float64(c.DaysElapsed(now)))
}

// Remaining returns what is still owed, never below zero
func (c *Credit) Remaining(now time.Time) float64 {
	if c.IsPaid {
		return 0
	}
	remaining := c.TotalOwed(now) - float64(c.PaidAmount)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PayableRemaining returns the largest whole-unit payment the credit accepts right now
func (c *Credit) PayableRemaining(now time.Time) int64 {
	remaining := c.Remaining(now)
	if remaining <= settlementEpsilon {
		return 0
	}
	return int64(math.Ceil(remaining - settlementEpsilon))
}

// IsSettledBy reports whether a cumulative paid amount covers the debt at now
func (c *Credit) IsSettledBy(paid int64, now time.Time) bool {
	return float64(paid)+settlementEpsilon >= c.TotalOwed(now)
}

// ApplyPayment adds a payment and flips the paid flag once the debt is covered.
// Callers validate the amount against PayableRemaining first.
func (c *Credit) ApplyPayment(amount int64, now time.Time) bool {
	c.PaidAmount += amount
	if c.IsSettledBy(c.PaidAmount, now) {
		c.IsPaid = true
		paidAt := now
		c.PaidAt = &paidAt
	}
	return c.IsPaid
}

// Snapshot computes the derived figures at now
func (c *Credit) Snapshot(now time.Time) CreditSnapshot {
	return CreditSnapshot{
		DaysElapsed:      c.DaysElapsed(now),
		TotalOwed:        c.TotalOwed(now),
		Remaining:        c.Remaining(now),
		PayableRemaining: c.PayableRemaining(now),
		AsOf:             now,
	}
}
