package testhelpers

import (
	"context"
	"time"

	"townbank/domain/entities"
	"townbank/domain/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByNickname(ctx context.Context, nickname string) (*entities.Account, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByLogin(ctx context.Context, login string) (*entities.Account, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) LockAccounts(ctx context.Context, ids ...int64) (map[int64]*entities.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) SetNickname(ctx context.Context, id int64, nickname string) error {
	args := m.Called(ctx, id, nickname)
	return args.Error(0)
}

func (m *MockAccountRepository) SetRole(ctx context.Context, id int64, role entities.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockAccountRepository) SetJob(ctx context.Context, id int64, job *entities.Job) error {
	args := m.Called(ctx, id, job)
	return args.Error(0)
}

func (m *MockAccountRepository) SetCasinoStaff(ctx context.Context, id int64, casinoStaff bool) error {
	args := m.Called(ctx, id, casinoStaff)
	return args.Error(0)
}

func (m *MockAccountRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockAccountRepository) ListEmployed(ctx context.Context) ([]*entities.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

func (m *MockBalanceHistoryRepository) SumChanges(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCreditRepository is a mock implementation of CreditRepository
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) Create(ctx context.Context, credit *entities.Credit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockCreditRepository) GetByID(ctx context.Context, id int64) (*entities.Credit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Credit), args.Error(1)
}

func (m *MockCreditRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Credit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Credit), args.Error(1)
}

func (m *MockCreditRepository) GetByAccount(ctx context.Context, accountID int64, includePaid bool) ([]*entities.Credit, error) {
	args := m.Called(ctx, accountID, includePaid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Credit), args.Error(1)
}

func (m *MockCreditRepository) UpdatePayment(ctx context.Context, credit *entities.Credit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

// MockTransferRepository is a mock implementation of TransferRepository
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *entities.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id int64) (*entities.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transfer), args.Error(1)
}

func (m *MockTransferRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Transfer, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transfer), args.Error(1)
}

// MockWagerRepository is a mock implementation of WagerRepository
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) CreateSession(ctx context.Context, session *entities.WagerSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockWagerRepository) GetSessionByID(ctx context.Context, id int64) (*entities.WagerSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WagerSession), args.Error(1)
}

func (m *MockWagerRepository) GetSessionByIDForUpdate(ctx context.Context, id int64) (*entities.WagerSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WagerSession), args.Error(1)
}

func (m *MockWagerRepository) GetSessionsByAccount(ctx context.Context, accountID int64, activeOnly bool) ([]*entities.WagerSession, error) {
	args := m.Called(ctx, accountID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WagerSession), args.Error(1)
}

func (m *MockWagerRepository) UpdateSession(ctx context.Context, session *entities.WagerSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockWagerRepository) CreateGame(ctx context.Context, game *entities.WagerGame) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockWagerRepository) GetGameByID(ctx context.Context, id int64) (*entities.WagerGame, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WagerGame), args.Error(1)
}

func (m *MockWagerRepository) GetGameByIDForUpdate(ctx context.Context, id int64) (*entities.WagerGame, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WagerGame), args.Error(1)
}

func (m *MockWagerRepository) UpdateGame(ctx context.Context, game *entities.WagerGame) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

// MockCycleRepository is a mock implementation of CycleRepository
type MockCycleRepository struct {
	mock.Mock
}

func (m *MockCycleRepository) Get(ctx context.Context) (*entities.CycleState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CycleState), args.Error(1)
}

func (m *MockCycleRepository) GetForUpdate(ctx context.Context) (*entities.CycleState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CycleState), args.Error(1)
}

func (m *MockCycleRepository) Update(ctx context.Context, state *entities.CycleState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// MockPayrollRepository is a mock implementation of PayrollRepository
type MockPayrollRepository struct {
	mock.Mock
}

func (m *MockPayrollRepository) GetRunning(ctx context.Context) (*entities.PayrollRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) CreateRun(ctx context.Context, run *entities.PayrollRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockPayrollRepository) UpdateRun(ctx context.Context, run *entities.PayrollRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockPayrollRepository) GetLatestRun(ctx context.Context) (*entities.PayrollRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) RecordPayment(ctx context.Context, payment *entities.PayrollPayment) (bool, error) {
	args := m.Called(ctx, payment)
	return args.Bool(0), args.Error(1)
}

// MockCreatorSecretRepository is a mock implementation of CreatorSecretRepository
type MockCreatorSecretRepository struct {
	mock.Mock
}

func (m *MockCreatorSecretRepository) Create(ctx context.Context, secret *entities.CreatorSecret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

func (m *MockCreatorSecretRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.CreatorSecret, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreatorSecret), args.Error(1)
}

func (m *MockCreatorSecretRepository) MarkConsumed(ctx context.Context, id uuid.UUID, accountID int64, at time.Time) error {
	args := m.Called(ctx, id, accountID, at)
	return args.Error(0)
}

func (m *MockCreatorSecretRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockCreatorSecretRepository) ListUsable(ctx context.Context) ([]*entities.CreatorSecret, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CreatorSecret), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockSecretHasher is a mock implementation of SecretHasher
type MockSecretHasher struct {
	mock.Mock
}

func (m *MockSecretHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *MockSecretHasher) Compare(hash, plain string) bool {
	args := m.Called(hash, plain)
	return args.Bool(0)
}

// FixedOutcomeDrawer always draws the same outcome
type FixedOutcomeDrawer struct {
	Outcome entities.WagerOutcome
	Calls   []float64
}

func (d *FixedOutcomeDrawer) Draw(winProbability float64) entities.WagerOutcome {
	d.Calls = append(d.Calls, winProbability)
	return d.Outcome
}
