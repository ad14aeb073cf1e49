package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWagerSession_StateChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		status        WagerSessionStatus
		canCommit     bool
		canCancel     bool
		terminalState bool
	}{
		{name: "proposed", status: WagerSessionStatusProposed, canCommit: true, canCancel: true},
		{name: "player committed", status: WagerSessionStatusPlayerCommitted},
		{name: "resolved", status: WagerSessionStatusResolved, terminalState: true},
		{name: "cancelled", status: WagerSessionStatusCancelled, terminalState: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			session := &WagerSession{StaffID: 1, PlayerID: 2, Status: tt.status}
			assert.Equal(t, tt.canCommit, session.CanBeCommitted())
			assert.Equal(t, tt.canCancel, session.CanBeCancelled())
			assert.Equal(t, tt.terminalState, session.IsTerminal())
		})
	}
}

func TestWagerSession_Transitions(t *testing.T) {
	t.Parallel()

	now := time.Now()
	session := &WagerSession{ID: 7, StaffID: 1, PlayerID: 2, Status: WagerSessionStatusProposed}

	session.MarkCommitted(40, 99, now)
	assert.Equal(t, WagerSessionStatusPlayerCommitted, session.Status)
	assert.Equal(t, int64(40), session.Stake)
	assert.Equal(t, int64(99), *session.GameID)
	assert.False(t, session.CanBeCommitted())
	assert.False(t, session.CanBeCancelled())

	session.MarkResolved(now)
	assert.Equal(t, WagerSessionStatusResolved, session.Status)
	assert.NotNil(t, session.ResolvedAt)
	assert.True(t, session.IsParticipant(1))
	assert.True(t, session.IsParticipant(2))
	assert.False(t, session.IsParticipant(3))
}

func TestWagerGame_Finish(t *testing.T) {
	t.Parallel()

	t.Run("win pays stake times multiplier", func(t *testing.T) {
		t.Parallel()

		game := &WagerGame{Stake: 40, Status: WagerGameStatusConfirmed}
		payout := game.Finish(WagerOutcomeWin, 0.5, 2, time.Now())

		assert.Equal(t, int64(80), payout)
		assert.Equal(t, int64(80), game.Payout)
		assert.True(t, game.IsFinished())
		assert.True(t, game.IsWin())
		assert.False(t, game.CanBeResolved())
	})

	t.Run("lose pays nothing", func(t *testing.T) {
		t.Parallel()

		game := &WagerGame{Stake: 40, Status: WagerGameStatusConfirmed}
		payout := game.Finish(WagerOutcomeLose, 0.5, 2, time.Now())

		assert.Equal(t, int64(0), payout)
		assert.False(t, game.IsWin())
		assert.Equal(t, 2.0, *game.Multiplier)
	})
}

func TestCalculatePayout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(80), CalculatePayout(40, 2))
	assert.Equal(t, int64(150), CalculatePayout(100, 1.5))
	assert.Equal(t, int64(4), CalculatePayout(3, 1.25))
}
