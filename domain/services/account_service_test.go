package services

import (
	"context"
	"strings"
	"testing"

	"townbank/config"
	"townbank/domain/apperrors"
	"townbank/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAccountService(mocks *TestMocks) *accountService {
	return NewAccountService(mocks.AccountRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher, mocks.Hasher).(*accountService)
}

func TestAccountService_Register(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	t.Run("creates account with starting balance", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newTestAccountService(mocks)

		mocks.AccountRepo.On("GetByLogin", ctx, "alice").Return(nil, nil)
		mocks.Hasher.On("Hash", "hunter2hunter2").Return("bcrypt-hash", nil)
		mocks.AccountRepo.On("Create", ctx, mock.MatchedBy(func(a *entities.Account) bool {
			return a.Login == "alice" && a.PasswordHash == "bcrypt-hash" && a.Balance == 1000 &&
				strings.HasPrefix(a.Nickname, "player-") && a.Role == entities.RoleUser
		})).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*entities.Account).ID = 7
		})
		mocks.BalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
			return h.AccountID == 7 && h.TransactionType == entities.TransactionTypeInitial && h.BalanceAfter == 1000
		})).Return(nil)
		mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
		mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.AccountCreatedEvent")).Return(nil)

		account, err := service.Register(ctx, " alice ", "hunter2hunter2")

		require.NoError(t, err)
		assert.Equal(t, int64(7), account.ID)
		assert.Len(t, account.Nickname, len("player-")+8)
		mocks.AssertAllExpectations(t)
	})

	t.Run("login already taken", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newTestAccountService(mocks)
		mocks.AccountRepo.On("GetByLogin", ctx, "alice").Return(testAccount(1, 0), nil)

		_, err := service.Register(ctx, "alice", "hunter2hunter2")

		assert.ErrorIs(t, err, apperrors.ErrLoginTaken)
		mocks.AccountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	invalid := []struct {
		name     string
		login    string
		password string
	}{
		{name: "short login", login: "al", password: "hunter2hunter2"},
		{name: "login with spaces", login: "al ice", password: "hunter2hunter2"},
		{name: "short password", login: "alice", password: "short"},
		{name: "long password", login: "alice", password: strings.Repeat("x", 73)},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			service := newTestAccountService(mocks)

			_, err := service.Register(ctx, tt.login, tt.password)

			assert.ErrorIs(t, err, apperrors.ErrInvalidRegistration)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	ctx := context.Background()

	stored := func(active bool) *entities.Account {
		account := testAccount(3, 100)
		account.PasswordHash = "hash"
		account.Active = active
		return account
	}

	t.Run("valid credentials", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newTestAccountService(mocks)
		mocks.AccountRepo.On("GetByLogin", ctx, "user3").Return(stored(true), nil)
		mocks.Hasher.On("Compare", "hash", "secret-pass").Return(true)

		account, err := service.Authenticate(ctx, "user3", "secret-pass")

		require.NoError(t, err)
		assert.Equal(t, int64(3), account.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newTestAccountService(mocks)
		mocks.AccountRepo.On("GetByLogin", ctx, "user3").Return(stored(true), nil)
		mocks.Hasher.On("Compare", "hash", "nope").Return(false)

		_, err := service.Authenticate(ctx, "user3", "nope")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown login looks like a wrong password", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newTestAccountService(mocks)
		mocks.AccountRepo.On("GetByLogin", ctx, "ghost").Return(nil, nil)

		_, err := service.Authenticate(ctx, "ghost", "whatever1")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newTestAccountService(mocks)
		mocks.AccountRepo.On("GetByLogin", ctx, "user3").Return(stored(false), nil)
		mocks.Hasher.On("Compare", "hash", "secret-pass").Return(true)

		_, err := service.Authenticate(ctx, "user3", "secret-pass")

		assert.ErrorIs(t, err, apperrors.ErrAccountInactive)
	})
}

func TestAccountService_SetNickname(t *testing.T) {
	ctx := context.Background()

	t.Run("first change succeeds", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newTestAccountService(mocks)
		mocks.AccountRepo.On("GetByIDForUpdate", ctx, int64(3)).Return(testAccount(3, 0), nil)
		mocks.AccountRepo.On("SetNickname", ctx, int64(3), "Вася_1").Return(nil)

		account, err := service.SetNickname(ctx, 3, "Вася_1")

		require.NoError(t, err)
		assert.Equal(t, "Вася_1", account.Nickname)
		assert.True(t, account.NicknameSet)
	})

	t.Run("second change is rejected", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newTestAccountService(mocks)
		account := testAccount(3, 0)
		account.NicknameSet = true
		mocks.AccountRepo.On("GetByIDForUpdate", ctx, int64(3)).Return(account, nil)

		_, err := service.SetNickname(ctx, 3, "another")

		assert.ErrorIs(t, err, apperrors.ErrNicknameAlreadySet)
	})

	t.Run("taken nickname", func(t *testing.T) {
		mocks := NewTestMocks()
		service := newTestAccountService(mocks)
		mocks.AccountRepo.On("GetByIDForUpdate", ctx, int64(3)).Return(testAccount(3, 0), nil)
		mocks.AccountRepo.On("SetNickname", ctx, int64(3), "banker").Return(apperrors.ErrNicknameTaken)

		_, err := service.SetNickname(ctx, 3, "banker")

		assert.ErrorIs(t, err, apperrors.ErrNicknameTaken)
	})

	for _, nickname := range []string{"ab", "player-123", "has space", strings.Repeat("n", 25)} {
		t.Run("invalid "+nickname, func(t *testing.T) {
			mocks := NewTestMocks()
			service := newTestAccountService(mocks)

			_, err := service.SetNickname(ctx, 3, nickname)

			assert.ErrorIs(t, err, apperrors.ErrInvalidNickname)
		})
	}
}

func TestAccountService_GetHistoryClampsLimit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		requested int
		expected  int
	}{
		{requested: 0, expected: 50},
		{requested: -5, expected: 50},
		{requested: 20, expected: 20},
		{requested: 1000, expected: 200},
	}

	for _, tt := range tests {
		mocks := NewTestMocks()
		service := newTestAccountService(mocks)
		mocks.BalanceHistoryRepo.On("GetByAccount", ctx, int64(3), tt.expected).Return([]*entities.BalanceHistory{}, nil)

		_, err := service.GetHistory(ctx, 3, tt.requested)

		require.NoError(t, err)
		mocks.BalanceHistoryRepo.AssertExpectations(t)
	}
}
