package interfaces

import (
	"context"

	"townbank/domain/entities"

	"github.com/google/uuid"
)

// LedgerService is the only path through which balances change
type LedgerService interface {
	// AdjustBalance applies a signed delta and records the history entry that justifies it
	AdjustBalance(ctx context.Context, adjustment entities.BalanceAdjustment) (*entities.BalanceHistory, error)
}

// AccountService defines the interface for account lifecycle operations
type AccountService interface {
	// Register creates an account with the starting balance and a default nickname
	Register(ctx context.Context, login, password string) (*entities.Account, error)

	// Authenticate checks credentials and returns the active account
	Authenticate(ctx context.Context, login, password string) (*entities.Account, error)

	// GetAccount retrieves an account or fails with ErrAccountNotFound
	GetAccount(ctx context.Context, accountID int64) (*entities.Account, error)

	// SetNickname replaces the default nickname, once
	SetNickname(ctx context.Context, accountID int64, nickname string) (*entities.Account, error)

	// GetHistory returns the latest balance changes of an account
	GetHistory(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error)
}

// CreditService defines the interface for loans
type CreditService interface {
	// TakeLoan creates a credit and pays the principal out to the borrower
	TakeLoan(ctx context.Context, accountID int64, principal int64) (*entities.LoanResult, error)

	// Repay applies a payment against a credit owned by the payer
	Repay(ctx context.Context, creditID, payerID int64, amount int64) (*entities.RepaymentResult, error)

	// GetCredit returns a credit owned by the account
	GetCredit(ctx context.Context, accountID, creditID int64) (*entities.Credit, error)

	// ListCredits returns the credits of an account
	ListCredits(ctx context.Context, accountID int64, includePaid bool) ([]*entities.Credit, error)
}

// TransferService defines the interface for peer transfers
type TransferService interface {
	// Transfer moves amount from the sender to the account holding receiverNickname, charging a fee
	Transfer(ctx context.Context, senderID int64, receiverNickname string, amount int64) (*entities.TransferResult, error)

	// ListTransfers returns transfers sent or received by an account
	ListTransfers(ctx context.Context, accountID int64, limit int) ([]*entities.Transfer, error)
}

// WagerService defines the interface for the Depalka session protocol
type WagerService interface {
	// InitiateSession proposes a session from a casino staff member to a target player
	InitiateSession(ctx context.Context, staffID, targetID int64) (*entities.WagerSession, error)

	// CommitStake debits the stake from the target player and creates the confirmed game
	CommitStake(ctx context.Context, sessionID, playerID int64, stake int64) (*entities.StakeResult, error)

	// ResolveGame draws the outcome of a confirmed game and applies the payout
	ResolveGame(ctx context.Context, gameID, staffID int64, winProbability, multiplier float64) (*entities.ResolutionResult, error)

	// CancelSession aborts a proposed session on behalf of its initiator
	CancelSession(ctx context.Context, sessionID, requesterID int64) (*entities.WagerSession, error)

	// DeclineSession aborts a proposed session on behalf of its target
	DeclineSession(ctx context.Context, sessionID, playerID int64) (*entities.WagerSession, error)

	// GetSession returns a session visible to the account
	GetSession(ctx context.Context, sessionID, accountID int64) (*entities.WagerSession, error)

	// GetGame returns a game visible to the account
	GetGame(ctx context.Context, gameID, accountID int64) (*entities.WagerGame, error)

	// ListSessions returns sessions the account takes part in
	ListSessions(ctx context.Context, accountID int64, activeOnly bool) ([]*entities.WagerSession, error)
}

// PayrollService defines the transactional steps of a day/night transition.
// Each method is meant to run in its own unit of work.
type PayrollService interface {
	// GetState returns the current cycle state
	GetState(ctx context.Context) (*entities.CycleState, error)

	// OpenPayroll locks the cycle, checks it is day and returns the running payroll run
	OpenPayroll(ctx context.Context, actorID *int64) (*entities.PayrollRun, error)

	// ListPayees returns the accounts owed a salary
	ListPayees(ctx context.Context) ([]*entities.Account, error)

	// PayAccount pays one account its salary for the run; paid is false when it was already paid or is no longer employed
	PayAccount(ctx context.Context, run *entities.PayrollRun, accountID int64) (amount int64, paid bool, err error)

	// HoldPayroll stores the progress of a run that left accounts unpaid. The run stays running.
	HoldPayroll(ctx context.Context, run *entities.PayrollRun, summary *entities.PayrollSummary) error

	// CloseDay completes the run and switches the cycle to night
	CloseDay(ctx context.Context, run *entities.PayrollRun, summary *entities.PayrollSummary, actorID *int64) (*entities.CycleState, error)

	// EndNight switches the cycle to day
	EndNight(ctx context.Context, actorID *int64) (*entities.CycleState, error)
}

// RoleService defines the role gate and the privileged mutations behind it
type RoleService interface {
	// RequireRole loads the actor and checks it meets the minimum role
	RequireRole(ctx context.Context, actorID int64, minimum entities.Role) (*entities.Account, error)

	// PromoteMayor grants the mayor role to a user
	PromoteMayor(ctx context.Context, actorID, targetID int64) (*entities.Account, error)

	// DemoteMayor returns a mayor to the user role
	DemoteMayor(ctx context.Context, actorID, targetID int64) (*entities.Account, error)

	// AssignJob sets a salaried job on an account
	AssignJob(ctx context.Context, actorID, targetID int64, job entities.Job) (*entities.Account, error)

	// RemoveJob clears the job of an account
	RemoveJob(ctx context.Context, actorID, targetID int64) (*entities.Account, error)

	// SetCasinoStaff grants or removes the casino staff flag
	SetCasinoStaff(ctx context.Context, actorID, targetID int64, casinoStaff bool) (*entities.Account, error)

	// SetAccountActive activates or deactivates an account
	SetAccountActive(ctx context.Context, actorID, targetID int64, active bool) (*entities.Account, error)

	// ForceAdjustBalance applies a correction through the ledger
	ForceAdjustBalance(ctx context.Context, actorID, targetID int64, delta int64, reason string) (*entities.BalanceHistory, error)

	// IssueCreatorSecret creates a new enrollment secret; actorID is nil for out-of-band bootstrap
	IssueCreatorSecret(ctx context.Context, actorID *int64) (*entities.IssuedCreatorSecret, error)

	// RevokeCreatorSecret disables an unused secret
	RevokeCreatorSecret(ctx context.Context, actorID int64, secretID uuid.UUID) error

	// ClaimCreator exchanges a valid secret for the creator role
	ClaimCreator(ctx context.Context, accountID int64, token string) (*entities.Account, error)
}

// SecretHasher hashes and verifies passwords and enrollment secrets
type SecretHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// OutcomeDrawer draws a Depalka outcome for the given win probability
type OutcomeDrawer interface {
	Draw(winProbability float64) entities.WagerOutcome
}
