package server

import (
	"context"

	"townbank/application"
	"townbank/domain/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAccountAPI struct{ mock.Mock }

func (m *mockAccountAPI) Register(ctx context.Context, login, password string) (*application.LoginResult, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.LoginResult), args.Error(1)
}

func (m *mockAccountAPI) Login(ctx context.Context, login, password string) (*application.LoginResult, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.LoginResult), args.Error(1)
}

func (m *mockAccountAPI) GetAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccountAPI) SetNickname(ctx context.Context, accountID int64, nickname string) (*entities.Account, error) {
	args := m.Called(ctx, accountID, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccountAPI) GetHistory(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

type mockCreditAPI struct{ mock.Mock }

func (m *mockCreditAPI) TakeLoan(ctx context.Context, accountID, principal int64) (*entities.LoanResult, error) {
	args := m.Called(ctx, accountID, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LoanResult), args.Error(1)
}

func (m *mockCreditAPI) Repay(ctx context.Context, creditID, payerID, amount int64) (*entities.RepaymentResult, error) {
	args := m.Called(ctx, creditID, payerID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RepaymentResult), args.Error(1)
}

func (m *mockCreditAPI) GetCredit(ctx context.Context, accountID, creditID int64) (*entities.Credit, error) {
	args := m.Called(ctx, accountID, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Credit), args.Error(1)
}

func (m *mockCreditAPI) ListCredits(ctx context.Context, accountID int64, includePaid bool) ([]*entities.Credit, error) {
	args := m.Called(ctx, accountID, includePaid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Credit), args.Error(1)
}

type mockTransferAPI struct{ mock.Mock }

func (m *mockTransferAPI) Transfer(ctx context.Context, senderID int64, receiverNickname string, amount int64) (*entities.TransferResult, error) {
	args := m.Called(ctx, senderID, receiverNickname, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransferResult), args.Error(1)
}

func (m *mockTransferAPI) ListTransfers(ctx context.Context, accountID int64, limit int) ([]*entities.Transfer, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transfer), args.Error(1)
}

type mockWagerAPI struct{ mock.Mock }

func (m *mockWagerAPI) InitiateSession(ctx context.Context, staffID, targetID int64) (*entities.WagerSession, error) {
	args := m.Called(ctx, staffID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WagerSession), args.Error(1)
}

func (m *mockWagerAPI) CommitStake(ctx context.Context, sessionID, playerID, stake int64) (*entities.StakeResult, error) {
	args := m.Called(ctx, sessionID, playerID, stake)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StakeResult), args.Error(1)
}

func (m *mockWagerAPI) ResolveGame(ctx context.Context, gameID, staffID int64, winProbability, multiplier float64) (*entities.ResolutionResult, error) {
	args := m.Called(ctx, gameID, staffID, winProbability, multiplier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ResolutionResult), args.Error(1)
}

func (m *mockWagerAPI) CancelSession(ctx context.Context, sessionID, requesterID int64) (*entities.WagerSession, error) {
	args := m.Called(ctx, sessionID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WagerSession), args.Error(1)
}

func (m *mockWagerAPI) DeclineSession(ctx context.Context, sessionID, playerID int64) (*entities.WagerSession, error) {
	args := m.Called(ctx, sessionID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WagerSession), args.Error(1)
}

func (m *mockWagerAPI) GetSession(ctx context.Context, sessionID, accountID int64) (*entities.WagerSession, error) {
	args := m.Called(ctx, sessionID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WagerSession), args.Error(1)
}

func (m *mockWagerAPI) GetGame(ctx context.Context, gameID, accountID int64) (*entities.WagerGame, error) {
	args := m.Called(ctx, gameID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WagerGame), args.Error(1)
}

func (m *mockWagerAPI) ListSessions(ctx context.Context, accountID int64, activeOnly bool) ([]*entities.WagerSession, error) {
	args := m.Called(ctx, accountID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WagerSession), args.Error(1)
}

type mockCycleAPI struct{ mock.Mock }

func (m *mockCycleAPI) GetCycle(ctx context.Context) (*entities.CycleState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CycleState), args.Error(1)
}

func (m *mockCycleAPI) AdvanceCycle(ctx context.Context, requesterID *int64, direction string) (*entities.CycleResult, error) {
	args := m.Called(ctx, requesterID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CycleResult), args.Error(1)
}

type mockRoleAPI struct{ mock.Mock }

func (m *mockRoleAPI) account(args mock.Arguments) (*entities.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockRoleAPI) PromoteMayor(ctx context.Context, actorID, targetID int64) (*entities.Account, error) {
	return m.account(m.Called(ctx, actorID, targetID))
}

func (m *mockRoleAPI) DemoteMayor(ctx context.Context, actorID, targetID int64) (*entities.Account, error) {
	return m.account(m.Called(ctx, actorID, targetID))
}

func (m *mockRoleAPI) AssignJob(ctx context.Context, actorID, targetID int64, job entities.Job) (*entities.Account, error) {
	return m.account(m.Called(ctx, actorID, targetID, job))
}

func (m *mockRoleAPI) RemoveJob(ctx context.Context, actorID, targetID int64) (*entities.Account, error) {
	return m.account(m.Called(ctx, actorID, targetID))
}

func (m *mockRoleAPI) SetCasinoStaff(ctx context.Context, actorID, targetID int64, casinoStaff bool) (*entities.Account, error) {
	return m.account(m.Called(ctx, actorID, targetID, casinoStaff))
}

func (m *mockRoleAPI) SetAccountActive(ctx context.Context, actorID, targetID int64, active bool) (*entities.Account, error) {
	return m.account(m.Called(ctx, actorID, targetID, active))
}

func (m *mockRoleAPI) ForceAdjustBalance(ctx context.Context, actorID, targetID, delta int64, reason string) (*entities.BalanceHistory, error) {
	args := m.Called(ctx, actorID, targetID, delta, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BalanceHistory), args.Error(1)
}

func (m *mockRoleAPI) IssueCreatorSecret(ctx context.Context, actorID *int64) (*entities.IssuedCreatorSecret, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.IssuedCreatorSecret), args.Error(1)
}

func (m *mockRoleAPI) RevokeCreatorSecret(ctx context.Context, actorID int64, secretID uuid.UUID) error {
	return m.Called(ctx, actorID, secretID).Error(0)
}

func (m *mockRoleAPI) ClaimCreator(ctx context.Context, accountID int64, token string) (*entities.Account, error) {
	return m.account(m.Called(ctx, accountID, token))
}
