package services

import (
	"context"
	"testing"

	"townbank/config"
	"townbank/domain/apperrors"
	"townbank/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTransfer(t *testing.T, sender, receiver *entities.Account) (*TestMocks, context.Context) {
	t.Helper()
	ctx := context.Background()
	mocks := NewTestMocks()

	mocks.AccountRepo.On("GetByNickname", ctx, receiver.Nickname).Return(receiver, nil)
	mocks.AccountRepo.On("LockAccounts", ctx, []int64{sender.ID, receiver.ID}).Return(map[int64]*entities.Account{
		sender.ID:   sender,
		receiver.ID: receiver,
	}, nil).Maybe()
	return mocks, ctx
}

func TestTransferService_FeeBoundary(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	tests := []struct {
		name         string
		amount       int64
		wantFee      int64
		wantSender   int64
		wantReceiver int64
	}{
		{name: "exactly the threshold is free", amount: 1000, wantFee: 0, wantSender: 4000, wantReceiver: 1100},
		{name: "one above the threshold pays five", amount: 1001, wantFee: 5, wantSender: 3994, wantReceiver: 1101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := testAccount(1, 5000)
			receiver := testAccount(2, 100)
			mocks, ctx := setupTransfer(t, sender, receiver)
			service := NewTransferService(mocks.AccountRepo, mocks.TransferRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher)

			mocks.TransferRepo.On("Create", ctx, mock.MatchedBy(func(tr *entities.Transfer) bool {
				return tr.SenderID == 1 && tr.ReceiverID == 2 && tr.Amount == tt.amount && tr.Fee == tt.wantFee && tr.Kind == entities.TransferKindPeer
			})).Return(nil).Run(func(args mock.Arguments) {
				args.Get(1).(*entities.Transfer).ID = 10
			})
			mocks.AccountRepo.On("AdjustBalance", ctx, int64(1), -(tt.amount + tt.wantFee)).Return(tt.wantSender, nil)
			mocks.AccountRepo.On("AdjustBalance", ctx, int64(2), tt.amount).Return(tt.wantReceiver, nil)
			mocks.ExpectHistory()
			mocks.AllowEvents()

			result, err := service.Transfer(ctx, 1, receiver.Nickname, tt.amount)

			require.NoError(t, err)
			assert.Equal(t, tt.wantFee, result.Fee)
			assert.Equal(t, tt.wantSender, result.SenderBalance)
			assert.Equal(t, tt.wantReceiver, result.ReceiverBalance)
			assert.Equal(t, int64(10), result.Transfer.ID)
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestTransferService_SelfTransferForbidden(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewTransferService(mocks.AccountRepo, mocks.TransferRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher)

	self := testAccount(1, 5000)
	mocks.AccountRepo.On("GetByNickname", ctx, self.Nickname).Return(self, nil)

	_, err := service.Transfer(ctx, 1, self.Nickname, 100)

	assert.ErrorIs(t, err, apperrors.ErrSelfTransferForbidden)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	mocks.AccountRepo.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
	mocks.TransferRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTransferService_InvalidAmount(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	for _, amount := range []int64{0, -1, 100001} {
		mocks := NewTestMocks()
		service := NewTransferService(mocks.AccountRepo, mocks.TransferRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher)

		_, err := service.Transfer(ctx, 1, "someone", amount)

		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount, "amount %d", amount)
		mocks.AccountRepo.AssertNotCalled(t, "GetByNickname", mock.Anything, mock.Anything)
	}
}

func TestTransferService_ReceiverNotFound(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	t.Run("unknown nickname", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewTransferService(mocks.AccountRepo, mocks.TransferRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher)
		mocks.AccountRepo.On("GetByNickname", ctx, "ghost").Return(nil, nil)

		_, err := service.Transfer(ctx, 1, "ghost", 100)

		assert.ErrorIs(t, err, apperrors.ErrReceiverNotFound)
	})

	t.Run("deactivated receiver", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewTransferService(mocks.AccountRepo, mocks.TransferRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher)
		inactive := testAccount(2, 0)
		inactive.Active = false
		mocks.AccountRepo.On("GetByNickname", ctx, inactive.Nickname).Return(inactive, nil)

		_, err := service.Transfer(ctx, 1, inactive.Nickname, 100)

		assert.ErrorIs(t, err, apperrors.ErrReceiverNotFound)
	})
}

func TestTransferService_InsufficientBalanceIncludesFee(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	sender := testAccount(1, 1005)
	receiver := testAccount(2, 0)
	mocks, ctx := setupTransfer(t, sender, receiver)
	service := NewTransferService(mocks.AccountRepo, mocks.TransferRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher)

	_, err := service.Transfer(ctx, 1, receiver.Nickname, 1001)

	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
	mocks.TransferRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mocks.AccountRepo.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
}

// Without an idempotency key a resubmitted request is a second transfer
func TestTransferService_DuplicateRequestsCreateTwoTransfers(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	sender := testAccount(1, 500)
	receiver := testAccount(2, 0)
	mocks, ctx := setupTransfer(t, sender, receiver)
	service := NewTransferService(mocks.AccountRepo, mocks.TransferRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher)

	mocks.TransferRepo.On("Create", ctx, mock.AnythingOfType("*entities.Transfer")).Return(nil)
	mocks.AccountRepo.On("AdjustBalance", ctx, int64(1), int64(-100)).Return(int64(400), nil).Once()
	mocks.AccountRepo.On("AdjustBalance", ctx, int64(1), int64(-100)).Return(int64(300), nil).Once()
	mocks.AccountRepo.On("AdjustBalance", ctx, int64(2), int64(100)).Return(int64(100), nil).Once()
	mocks.AccountRepo.On("AdjustBalance", ctx, int64(2), int64(100)).Return(int64(200), nil).Once()
	mocks.ExpectHistory()
	mocks.AllowEvents()

	first, err := service.Transfer(ctx, 1, receiver.Nickname, 100)
	require.NoError(t, err)
	second, err := service.Transfer(ctx, 1, receiver.Nickname, 100)
	require.NoError(t, err)

	assert.Equal(t, int64(400), first.SenderBalance)
	assert.Equal(t, int64(300), second.SenderBalance)
	mocks.TransferRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestTransferService_ListTransfersClampsLimit(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	ctx := context.Background()
	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"default", 0, defaultHistoryLimit},
		{"explicit", 10, 10},
		{"capped", 10000, maxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			mocks.TransferRepo.On("GetByAccount", ctx, int64(1), tt.expected).Return([]*entities.Transfer{}, nil)

			svc := NewTransferService(mocks.AccountRepo, mocks.TransferRepo, mocks.BalanceHistoryRepo, mocks.EventPublisher)
			_, err := svc.ListTransfers(ctx, 1, tt.limit)

			require.NoError(t, err)
			mocks.TransferRepo.AssertExpectations(t)
		})
	}
}
