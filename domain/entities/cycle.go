package entities

import (
	"time"
)

// CycleDirection is a requested day/night transition
type CycleDirection string

const (
	CycleDirectionEndDay   CycleDirection = "endDay"
	CycleDirectionEndNight CycleDirection = "endNight"
)

// ParseCycleDirection validates a raw direction string
func ParseCycleDirection(raw string) (CycleDirection, bool) {
	switch CycleDirection(raw) {
	case CycleDirectionEndDay:
		return CycleDirectionEndDay, true
	case CycleDirectionEndNight:
		return CycleDirectionEndNight, true
	default:
		return "", false
	}
}

// CycleState is the global day/night flag, stored as a single row
type CycleState struct {
	IsDay      bool      `db:"is_day"`
	LastChange time.Time `db:"last_change"`
	ChangedBy  *int64    `db:"changed_by"`
}

// Accepts reports whether the direction moves the cycle out of its current phase
func (c *CycleState) Accepts(direction CycleDirection) bool {
	switch direction {
	case CycleDirectionEndDay:
		return c.IsDay
	case CycleDirectionEndNight:
		return !c.IsDay
	default:
		return false
	}
}

// PayrollRunStatus is the state of a salary pass
type PayrollRunStatus string

const (
	PayrollRunStatusRunning   PayrollRunStatus = "running"
	PayrollRunStatusCompleted PayrollRunStatus = "completed"
)

// PayrollRun represents one end-of-day salary pass
type PayrollRun struct {
	ID               int64            `db:"id"`
	Status           PayrollRunStatus `db:"status"`
	StartedBy        *int64           `db:"started_by"`
	AccountsPaid     int              `db:"accounts_paid"`
	AccountsFailed   int              `db:"accounts_failed"`
	TotalPaid        int64            `db:"total_paid"`
	ExecutionSummary map[string]any   `db:"execution_summary"`
	StartedAt        time.Time        `db:"started_at"`
	CompletedAt      *time.Time       `db:"completed_at"`
}

// PayrollPayment marks an account as paid within a run
type PayrollPayment struct {
	ID        int64     `db:"id"`
	RunID     int64     `db:"run_id"`
	AccountID int64     `db:"account_id"`
	Amount    int64     `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}

// PayrollSummary reports the outcome of a salary pass
type PayrollSummary struct {
	RunID            int64
	AccountsPaid     int
	AccountsSkipped  int // Already paid by an earlier attempt of the same run
	AccountsFailed   int
	TotalPaid        int64
	FailedAccountIDs []int64
}

// CycleResult is returned by a cycle transition
type CycleResult struct {
	State   CycleState
	Payroll *PayrollSummary
}
