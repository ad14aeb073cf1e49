package entities

import (
	"math"
	"time"
)

// WagerSessionStatus is the lifecycle state of a Depalka session
type WagerSessionStatus string

const (
	WagerSessionStatusProposed        WagerSessionStatus = "proposed"
	WagerSessionStatusPlayerCommitted WagerSessionStatus = "player_committed"
	WagerSessionStatusResolved        WagerSessionStatus = "resolved"
	WagerSessionStatusCancelled       WagerSessionStatus = "cancelled"
)

// WagerGameStatus is the state of the bet created when a stake is committed
type WagerGameStatus string

const (
	WagerGameStatusConfirmed WagerGameStatus = "confirmed"
	WagerGameStatusFinished  WagerGameStatus = "finished"
)

// WagerOutcome is the drawn result of a game
type WagerOutcome string

const (
	WagerOutcomeWin  WagerOutcome = "win"
	WagerOutcomeLose WagerOutcome = "lose"
)

// WagerSession is the interaction between a casino staff member and a target player
type WagerSession struct {
	ID          int64              `db:"id"`
	StaffID     int64              `db:"staff_id"`
	PlayerID    int64              `db:"player_id"`
	Stake       int64              `db:"stake"`
	Status      WagerSessionStatus `db:"status"`
	GameID      *int64             `db:"game_id"`
	CancelledBy *int64             `db:"cancelled_by"`
	CreatedAt   time.Time          `db:"created_at"`
	CommittedAt *time.Time         `db:"committed_at"`
	ResolvedAt  *time.Time         `db:"resolved_at"`
	CancelledAt *time.Time         `db:"cancelled_at"`
}

// IsPending reports whether the session is waiting for the player's stake
func (s *WagerSession) IsPending() bool {
	return s.Status == WagerSessionStatusProposed
}

// CanBeCommitted checks whether the player can still submit a stake
func (s *WagerSession) CanBeCommitted() bool {
	return s.Status == WagerSessionStatusProposed && s.Stake == 0 && s.GameID == nil
}

// CanBeCancelled checks whether the session can be aborted; committed money is never refunded
func (s *WagerSession) CanBeCancelled() bool {
	return s.Status == WagerSessionStatusProposed
}

// IsTerminal reports whether the session has reached a final state
func (s *WagerSession) IsTerminal() bool {
	return s.Status == WagerSessionStatusResolved || s.Status == WagerSessionStatusCancelled
}

// IsParticipant checks if an account is part of the session
func (s *WagerSession) IsParticipant(accountID int64) bool {
	return s.StaffID == accountID || s.PlayerID == accountID
}

// MarkCommitted records the stake and the linked game
func (s *WagerSession) MarkCommitted(stake, gameID int64, now time.Time) {
	s.Stake = stake
	s.GameID = &gameID
	s.Status = WagerSessionStatusPlayerCommitted
	s.CommittedAt = &now
}

// MarkResolved closes the session after its game finished
func (s *WagerSession) MarkResolved(now time.Time) {
	s.Status = WagerSessionStatusResolved
	s.ResolvedAt = &now
}

// MarkCancelled aborts a proposed session
func (s *WagerSession) MarkCancelled(by int64, now time.Time) {
	s.Status = WagerSessionStatusCancelled
	s.CancelledBy = &by
	s.CancelledAt = &now
}

// WagerGame is the bet linked 1:1 to a committed session
type WagerGame struct {
	ID             int64           `db:"id"`
	SessionID      int64           `db:"session_id"`
	PlayerID       int64           `db:"player_id"`
	StaffID        int64           `db:"staff_id"`
	Stake          int64           `db:"stake"`
	Status         WagerGameStatus `db:"status"`
	Outcome        *WagerOutcome   `db:"outcome"`
	Multiplier     *float64        `db:"multiplier"`
	WinProbability *float64        `db:"win_probability"`
	Payout         int64           `db:"payout"`
	CreatedAt      time.Time       `db:"created_at"`
	FinishedAt     *time.Time      `db:"finished_at"`
}

// IsFinished reports whether the outcome has been applied
func (g *WagerGame) IsFinished() bool {
	return g.Status == WagerGameStatusFinished
}

// CanBeResolved checks whether the game is waiting for its outcome
func (g *WagerGame) CanBeResolved() bool {
	return g.Status == WagerGameStatusConfirmed
}

// IsWin reports whether the game finished with a win
func (g *WagerGame) IsWin() bool {
	return g.Outcome != nil && *g.Outcome == WagerOutcomeWin
}

// Finish sets the immutable outcome and returns the payout owed to the player
func (g *WagerGame) Finish(outcome WagerOutcome, winProbability, multiplier float64, now time.Time) int64 {
	g.Status = WagerGameStatusFinished
	g.Outcome = &outcome
	g.WinProbability = &winProbability
	g.Multiplier = &multiplier
	g.FinishedAt = &now
	g.Payout = 0
	if outcome == WagerOutcomeWin {
		g.Payout = CalculatePayout(g.Stake, multiplier)
	}
	return g.Payout
}

// CalculatePayout returns stake × multiplier rounded to whole units
func CalculatePayout(stake int64, multiplier float64) int64 {
	return int64(math.Round(float64(stake) * multiplier))
}
