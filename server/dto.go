package server

import (
	"time"

	"townbank/domain/entities"
	"townbank/domain/utils"
)

// Requests. Amounts carry no binding rule: zero and negative values both reach the
// services and fail there with the same typed error.

type credentialsRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type nicknameRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

type loanRequest struct {
	Principal int64 `json:"principal"`
}

type repayRequest struct {
	Amount int64 `json:"amount"`
}

type transferRequest struct {
	ReceiverNickname string `json:"receiverNickname" binding:"required"`
	Amount           int64  `json:"amount"`
}

type sessionRequest struct {
	TargetID int64 `json:"targetId" binding:"required"`
}

type stakeRequest struct {
	Stake int64 `json:"stake"`
}

type resolveRequest struct {
	WinProbability float64 `json:"winProbability"`
	Multiplier     float64 `json:"multiplier"`
}

type advanceRequest struct {
	Direction string `json:"direction" binding:"required"`
}

type jobRequest struct {
	Title  string `json:"title" binding:"required"`
	Salary int64  `json:"salary"`
}

type flagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

type adjustRequest struct {
	Delta  int64  `json:"delta"`
	Reason string `json:"reason" binding:"required"`
}

type claimRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// Responses

type jobResponse struct {
	Title  string `json:"title"`
	Salary int64  `json:"salary"`
}

type accountResponse struct {
	ID          int64        `json:"id"`
	Login       string       `json:"login"`
	Nickname    string       `json:"nickname"`
	NicknameSet bool         `json:"nicknameSet"`
	Balance     int64        `json:"balance"`
	Role        string       `json:"role"`
	Job         *jobResponse `json:"job,omitempty"`
	CasinoStaff bool         `json:"casinoStaff"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func newAccountResponse(a *entities.Account) accountResponse {
	resp := accountResponse{
		ID:          a.ID,
		Login:       a.Login,
		Nickname:    a.Nickname,
		NicknameSet: a.NicknameSet,
		Balance:     a.Balance,
		Role:        a.Role.String(),
		CasinoStaff: a.CasinoStaff,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
	}
	if a.Job != nil {
		resp.Job = &jobResponse{Title: a.Job.Title, Salary: a.Job.Salary}
	}
	return resp
}

type historyResponse struct {
	ID              int64          `json:"id"`
	BalanceBefore   int64          `json:"balanceBefore"`
	BalanceAfter    int64          `json:"balanceAfter"`
	ChangeAmount    int64          `json:"changeAmount"`
	TransactionType string         `json:"transactionType"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	RelatedID       *int64         `json:"relatedId,omitempty"`
	RelatedType     *string        `json:"relatedType,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func newHistoryResponse(h *entities.BalanceHistory) historyResponse {
	resp := historyResponse{
		ID:              h.ID,
		BalanceBefore:   h.BalanceBefore,
		BalanceAfter:    h.BalanceAfter,
		ChangeAmount:    h.ChangeAmount,
		TransactionType: string(h.TransactionType),
		Metadata:        h.TransactionMetadata,
		RelatedID:       h.RelatedID,
		CreatedAt:       h.CreatedAt,
	}
	if h.RelatedType != nil {
		relatedType := string(*h.RelatedType)
		resp.RelatedType = &relatedType
	}
	return resp
}

// creditResponse carries derived totals rounded to two decimals
type creditResponse struct {
	ID               int64      `json:"id"`
	Principal        int64      `json:"principal"`
	DailyRate        float64    `json:"dailyRate"`
	PaidAmount       int64      `json:"paidAmount"`
	IsPaid           bool       `json:"isPaid"`
	DaysElapsed      int        `json:"daysElapsed"`
	TotalOwed        float64    `json:"totalOwed"`
	Remaining        float64    `json:"remaining"`
	PayableRemaining int64      `json:"payableRemaining"`
	CreatedAt        time.Time  `json:"createdAt"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
}

func newCreditResponse(c *entities.Credit, snapshot entities.CreditSnapshot) creditResponse {
	return creditResponse{
		ID:               c.ID,
		Principal:        c.Principal,
		DailyRate:        c.DailyRate,
		PaidAmount:       c.PaidAmount,
		IsPaid:           c.IsPaid,
		DaysElapsed:      snapshot.DaysElapsed,
		TotalOwed:        utils.RoundMoney(snapshot.TotalOwed),
		Remaining:        utils.RoundMoney(snapshot.Remaining),
		PayableRemaining: snapshot.PayableRemaining,
		CreatedAt:        c.CreatedAt,
		PaidAt:           c.PaidAt,
	}
}

type transferResponse struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"senderId"`
	ReceiverID int64     `json:"receiverId"`
	Amount     int64     `json:"amount"`
	Fee        int64     `json:"fee"`
	Kind       string    `json:"kind"`
	RelatedID  *int64    `json:"relatedId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newTransferResponse(t *entities.Transfer) transferResponse {
	return transferResponse{
		ID:         t.ID,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Amount:     t.Amount,
		Fee:        t.Fee,
		Kind:       string(t.Kind),
		RelatedID:  t.RelatedID,
		CreatedAt:  t.CreatedAt,
	}
}

type sessionResponse struct {
	ID          int64      `json:"id"`
	StaffID     int64      `json:"staffId"`
	PlayerID    int64      `json:"playerId"`
	Stake       int64      `json:"stake"`
	Status      string     `json:"status"`
	GameID      *int64     `json:"gameId,omitempty"`
	CancelledBy *int64     `json:"cancelledBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CommittedAt *time.Time `json:"committedAt,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

func newSessionResponse(s *entities.WagerSession) sessionResponse {
	return sessionResponse{
		ID:          s.ID,
		StaffID:     s.StaffID,
		PlayerID:    s.PlayerID,
		Stake:       s.Stake,
		Status:      string(s.Status),
		GameID:      s.GameID,
		CancelledBy: s.CancelledBy,
		CreatedAt:   s.CreatedAt,
		CommittedAt: s.CommittedAt,
		ResolvedAt:  s.ResolvedAt,
		CancelledAt: s.CancelledAt,
	}
}

type gameResponse struct {
	ID             int64      `json:"id"`
	SessionID      int64      `json:"sessionId"`
	PlayerID       int64      `json:"playerId"`
	StaffID        int64      `json:"staffId"`
	Stake          int64      `json:"stake"`
	Status         string     `json:"status"`
	Outcome        *string    `json:"outcome,omitempty"`
	Multiplier     *float64   `json:"multiplier,omitempty"`
	WinProbability *float64   `json:"winProbability,omitempty"`
	Payout         int64      `json:"payout"`
	CreatedAt      time.Time  `json:"createdAt"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
}

func newGameResponse(g *entities.WagerGame) gameResponse {
	resp := gameResponse{
		ID:             g.ID,
		SessionID:      g.SessionID,
		PlayerID:       g.PlayerID,
		StaffID:        g.StaffID,
		Stake:          g.Stake,
		Status:         string(g.Status),
		Multiplier:     g.Multiplier,
		WinProbability: g.WinProbability,
		Payout:         g.Payout,
		CreatedAt:      g.CreatedAt,
		FinishedAt:     g.FinishedAt,
	}
	if g.Outcome != nil {
		outcome := string(*g.Outcome)
		resp.Outcome = &outcome
	}
	return resp
}

type cycleResponse struct {
	IsDay      bool                    `json:"isDay"`
	LastChange time.Time               `json:"lastChange"`
	Payroll    *payrollSummaryResponse `json:"payroll,omitempty"`
}

type payrollSummaryResponse struct {
	RunID            int64   `json:"runId"`
	AccountsPaid     int     `json:"accountsPaid"`
	AccountsSkipped  int     `json:"accountsSkipped"`
	AccountsFailed   int     `json:"accountsFailed"`
	TotalPaid        int64   `json:"totalPaid"`
	FailedAccountIDs []int64 `json:"failedAccountIds,omitempty"`
}

func newCycleResponse(state entities.CycleState, summary *entities.PayrollSummary) cycleResponse {
	resp := cycleResponse{IsDay: state.IsDay, LastChange: state.LastChange}
	if summary != nil {
		resp.Payroll = &payrollSummaryResponse{
			RunID:            summary.RunID,
			AccountsPaid:     summary.AccountsPaid,
			AccountsSkipped:  summary.AccountsSkipped,
			AccountsFailed:   summary.AccountsFailed,
			TotalPaid:        summary.TotalPaid,
			FailedAccountIDs: summary.FailedAccountIDs,
		}
	}
	return resp
}
