package interfaces

import (
	"context"
	"time"

	"townbank/domain/entities"
	"townbank/domain/events"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account data access.
// Lookups return nil, nil when the account does not exist.
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id int64) (*entities.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error)

	// GetByNickname retrieves an account by its display name
	GetByNickname(ctx context.Context, nickname string) (*entities.Account, error)

	// GetByLogin retrieves an account by its login
	GetByLogin(ctx context.Context, login string) (*entities.Account, error)

	// LockAccounts locks the given accounts in ascending id order and returns the ones found
	LockAccounts(ctx context.Context, ids ...int64) (map[int64]*entities.Account, error)

	// Create inserts a new account and fills in its ID and timestamps
	Create(ctx context.Context, account *entities.Account) error

	// AdjustBalance atomically applies delta and returns the new balance.
	// Fails with ErrAccountNotFound or ErrInsufficientFunds.
	AdjustBalance(ctx context.Context, id int64, delta int64) (int64, error)

	// SetNickname replaces the default nickname and marks it as set
	SetNickname(ctx context.Context, id int64, nickname string) error

	// SetRole updates the role of an account
	SetRole(ctx context.Context, id int64, role entities.Role) error

	// SetJob assigns a job, or removes it when job is nil
	SetJob(ctx context.Context, id int64, job *entities.Job) error

	// SetCasinoStaff updates the casino staff flag
	SetCasinoStaff(ctx context.Context, id int64, casinoStaff bool) error

	// SetActive updates the active flag
	SetActive(ctx context.Context, id int64, active bool) error

	// ListEmployed returns every active account with a salaried job, ordered by id
	ListEmployed(ctx context.Context) ([]*entities.Account, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByAccount returns the most recent entries for an account, newest first
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error)

	// SumChanges returns the sum of all recorded changes for an account
	SumChanges(ctx context.Context, accountID int64) (int64, error)
}

// CreditRepository defines the interface for loan data access
type CreditRepository interface {
	// Create inserts a new credit
	Create(ctx context.Context, credit *entities.Credit) error

	// GetByID retrieves a credit by its ID
	GetByID(ctx context.Context, id int64) (*entities.Credit, error)

	// GetByIDForUpdate retrieves a credit and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Credit, error)

	// GetByAccount returns the credits of an account, newest first
	GetByAccount(ctx context.Context, accountID int64, includePaid bool) ([]*entities.Credit, error)

	// UpdatePayment persists paid_amount, is_paid and paid_at
	UpdatePayment(ctx context.Context, credit *entities.Credit) error
}

// TransferRepository defines the interface for transfer records
type TransferRepository interface {
	// Create inserts an immutable transfer record
	Create(ctx context.Context, transfer *entities.Transfer) error

	// GetByID retrieves a transfer by its ID
	GetByID(ctx context.Context, id int64) (*entities.Transfer, error)

	// GetByAccount returns transfers sent or received by an account, newest first
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Transfer, error)
}

// WagerRepository defines the interface for Depalka sessions and games
type WagerRepository interface {
	// CreateSession inserts a new proposed session
	CreateSession(ctx context.Context, session *entities.WagerSession) error

	// GetSessionByID retrieves a session by its ID
	GetSessionByID(ctx context.Context, id int64) (*entities.WagerSession, error)

	// GetSessionByIDForUpdate retrieves a session and locks its row
	GetSessionByIDForUpdate(ctx context.Context, id int64) (*entities.WagerSession, error)

	// GetSessionsByAccount returns sessions where the account is staff or player, newest first
	GetSessionsByAccount(ctx context.Context, accountID int64, activeOnly bool) ([]*entities.WagerSession, error)

	// UpdateSession persists the mutable session fields
	UpdateSession(ctx context.Context, session *entities.WagerSession) error

	// CreateGame inserts a confirmed game
	CreateGame(ctx context.Context, game *entities.WagerGame) error

	// GetGameByID retrieves a game by its ID
	GetGameByID(ctx context.Context, id int64) (*entities.WagerGame, error)

	// GetGameByIDForUpdate retrieves a game and locks its row
	GetGameByIDForUpdate(ctx context.Context, id int64) (*entities.WagerGame, error)

	// UpdateGame persists the outcome of a game
	UpdateGame(ctx context.Context, game *entities.WagerGame) error
}

// CycleRepository defines the interface for the day/night singleton row
type CycleRepository interface {
	// Get returns the current cycle state
	Get(ctx context.Context) (*entities.CycleState, error)

	// GetForUpdate returns the cycle state and locks the row
	GetForUpdate(ctx context.Context) (*entities.CycleState, error)

	// Update persists the cycle state
	Update(ctx context.Context, state *entities.CycleState) error
}

// PayrollRepository defines the interface for salary runs
type PayrollRepository interface {
	// GetRunning returns the run still in progress, or nil
	GetRunning(ctx context.Context) (*entities.PayrollRun, error)

	// CreateRun inserts a new running run
	CreateRun(ctx context.Context, run *entities.PayrollRun) error

	// UpdateRun stores the status and totals of a run
	UpdateRun(ctx context.Context, run *entities.PayrollRun) error

	// GetLatestRun returns the most recently started run, or nil
	GetLatestRun(ctx context.Context) (*entities.PayrollRun, error)

	// RecordPayment inserts a payment unless the account was already paid in the run.
	// Returns false when the payment already existed.
	RecordPayment(ctx context.Context, payment *entities.PayrollPayment) (bool, error)
}

// CreatorSecretRepository defines the interface for creator enrollment secrets
type CreatorSecretRepository interface {
	// Create inserts a new secret
	Create(ctx context.Context, secret *entities.CreatorSecret) error

	// GetByIDForUpdate retrieves a secret and locks its row
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.CreatorSecret, error)

	// MarkConsumed records the account that exchanged the secret
	MarkConsumed(ctx context.Context, id uuid.UUID, accountID int64, at time.Time) error

	// Revoke disables a secret
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListUsable returns secrets that are neither consumed nor revoked
	ListUsable(ctx context.Context) ([]*entities.CreatorSecret, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding transaction finishes
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}
