package server

import (
	"context"

	"townbank/application"
	"townbank/domain/entities"

	"github.com/google/uuid"
)

// AccountAPI is implemented by application.AccountHandler
type AccountAPI interface {
	Register(ctx context.Context, login, password string) (*application.LoginResult, error)
	Login(ctx context.Context, login, password string) (*application.LoginResult, error)
	GetAccount(ctx context.Context, accountID int64) (*entities.Account, error)
	SetNickname(ctx context.Context, accountID int64, nickname string) (*entities.Account, error)
	GetHistory(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error)
}

// CreditAPI is implemented by application.CreditHandler
type CreditAPI interface {
	TakeLoan(ctx context.Context, accountID, principal int64) (*entities.LoanResult, error)
	Repay(ctx context.Context, creditID, payerID, amount int64) (*entities.RepaymentResult, error)
	GetCredit(ctx context.Context, accountID, creditID int64) (*entities.Credit, error)
	ListCredits(ctx context.Context, accountID int64, includePaid bool) ([]*entities.Credit, error)
}

// TransferAPI is implemented by application.TransferHandler
type TransferAPI interface {
	Transfer(ctx context.Context, senderID int64, receiverNickname string, amount int64) (*entities.TransferResult, error)
	ListTransfers(ctx context.Context, accountID int64, limit int) ([]*entities.Transfer, error)
}

// WagerAPI is implemented by application.WagerHandler
type WagerAPI interface {
	InitiateSession(ctx context.Context, staffID, targetID int64) (*entities.WagerSession, error)
	CommitStake(ctx context.Context, sessionID, playerID, stake int64) (*entities.StakeResult, error)
	ResolveGame(ctx context.Context, gameID, staffID int64, winProbability, multiplier float64) (*entities.ResolutionResult, error)
	CancelSession(ctx context.Context, sessionID, requesterID int64) (*entities.WagerSession, error)
	DeclineSession(ctx context.Context, sessionID, playerID int64) (*entities.WagerSession, error)
	GetSession(ctx context.Context, sessionID, accountID int64) (*entities.WagerSession, error)
	GetGame(ctx context.Context, gameID, accountID int64) (*entities.WagerGame, error)
	ListSessions(ctx context.Context, accountID int64, activeOnly bool) ([]*entities.WagerSession, error)
}

// CycleAPI is implemented by application.CycleHandler
type CycleAPI interface {
	GetCycle(ctx context.Context) (*entities.CycleState, error)
	AdvanceCycle(ctx context.Context, requesterID *int64, direction string) (*entities.CycleResult, error)
}

// RoleAPI is implemented by application.RoleHandler
type RoleAPI interface {
	PromoteMayor(ctx context.Context, actorID, targetID int64) (*entities.Account, error)
	DemoteMayor(ctx context.Context, actorID, targetID int64) (*entities.Account, error)
	AssignJob(ctx context.Context, actorID, targetID int64, job entities.Job) (*entities.Account, error)
	RemoveJob(ctx context.Context, actorID, targetID int64) (*entities.Account, error)
	SetCasinoStaff(ctx context.Context, actorID, targetID int64, casinoStaff bool) (*entities.Account, error)
	SetAccountActive(ctx context.Context, actorID, targetID int64, active bool) (*entities.Account, error)
	ForceAdjustBalance(ctx context.Context, actorID, targetID, delta int64, reason string) (*entities.BalanceHistory, error)
	IssueCreatorSecret(ctx context.Context, actorID *int64) (*entities.IssuedCreatorSecret, error)
	RevokeCreatorSecret(ctx context.Context, actorID int64, secretID uuid.UUID) error
	ClaimCreator(ctx context.Context, accountID int64, token string) (*entities.Account, error)
}
