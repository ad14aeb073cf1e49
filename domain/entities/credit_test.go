package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredit_DaysElapsed(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "taken moments ago counts as one day", now: created.Add(time.Second), want: 1},
		{name: "same instant counts as one day", now: created, want: 1},
		{name: "clock skew before creation counts as one day", now: created.Add(-time.Minute), want: 1},
		{name: "exactly one day", now: created.Add(24 * time.Hour), want: 1},
		{name: "one day and a nanosecond starts day two", now: created.Add(24*time.Hour + time.Nanosecond), want: 2},
		{name: "three and a half days", now: created.Add(84 * time.Hour), want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			credit := &Credit{Principal: 1000, DailyRate: DefaultDailyRate, CreatedAt: created}
			assert.Equal(t, tt.want, credit.DaysElapsed(tt.now))
		})
	}
}

func TestCredit_TotalOwedCompoundsDaily(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	credit := &Credit{Principal: 1000, DailyRate: 0.03, CreatedAt: created}

	assert.InDelta(t, 1030.0, credit.TotalOwed(created.Add(time.Hour)), 1e-9)
	assert.InDelta(t, 1060.9, credit.TotalOwed(created.Add(47*time.Hour)), 1e-9)
	assert.InDelta(t, 1092.727, credit.TotalOwed(created.Add(71*time.Hour)), 1e-9)
}

func TestCredit_RemainingIsDerivedFromPaidAmount(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)
	credit := &Credit{Principal: 1000, DailyRate: 0.03, PaidAmount: 30, CreatedAt: created}

	assert.InDelta(t, 1000.0, credit.Remaining(now), 1e-9)
	assert.Equal(t, int64(1000), credit.PayableRemaining(now))

	// Remaining grows with time even though nothing stored changed
	assert.InDelta(t, 1030.9, credit.Remaining(created.Add(25*time.Hour)), 1e-9)
}

func TestCredit_FullRepaymentRoundTrip(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(10 * time.Minute)
	credit := &Credit{Principal: 1000, DailyRate: 0.03, CreatedAt: created}

	payable := credit.PayableRemaining(now)
	assert.Equal(t, int64(1030), payable)

	fullyPaid := credit.ApplyPayment(payable, now)

	assert.True(t, fullyPaid)
	assert.True(t, credit.IsPaid)
	assert.NotNil(t, credit.PaidAt)
	assert.Equal(t, 0.0, credit.Remaining(now))
	assert.Equal(t, int64(0), credit.PayableRemaining(now))
}

func TestCredit_FractionalDebtSettlesOnNextWholeUnit(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(time.Minute)
	credit := &Credit{Principal: 333, DailyRate: 0.03, CreatedAt: created}

	// 333 × 1.03 = 342.99
	assert.InDelta(t, 342.99, credit.Remaining(now), 1e-9)
	assert.Equal(t, int64(343), credit.PayableRemaining(now))

	assert.False(t, credit.ApplyPayment(342, now))
	assert.InDelta(t, 0.99, credit.Remaining(now), 1e-9)
	assert.Equal(t, int64(1), credit.PayableRemaining(now))

	assert.True(t, credit.ApplyPayment(1, now))
	assert.Equal(t, int64(343), credit.PaidAmount)
}

func TestCredit_PartialPaymentKeepsCreditOpen(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)
	credit := &Credit{Principal: 500, DailyRate: 0.03, CreatedAt: created}

	assert.False(t, credit.ApplyPayment(200, now))
	assert.False(t, credit.IsPaid)
	assert.Nil(t, credit.PaidAt)
	assert.Equal(t, int64(315), credit.PayableRemaining(now))
}

func TestCredit_Snapshot(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(30 * time.Hour)
	credit := &Credit{Principal: 1000, DailyRate: 0.03, PaidAmount: 60, CreatedAt: created}

	snapshot := credit.Snapshot(now)

	assert.Equal(t, 2, snapshot.DaysElapsed)
	assert.InDelta(t, 1060.9, snapshot.TotalOwed, 1e-9)
	assert.InDelta(t, 1000.9, snapshot.Remaining, 1e-9)
	assert.Equal(t, int64(1001), snapshot.PayableRemaining)
	assert.Equal(t, now, snapshot.AsOf)
}
