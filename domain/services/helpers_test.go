package services

import (
	"fmt"
	"testing"
	"time"

	"townbank/domain/entities"
	"townbank/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	AccountRepo        *testhelpers.MockAccountRepository
	BalanceHistoryRepo *testhelpers.MockBalanceHistoryRepository
	CreditRepo         *testhelpers.MockCreditRepository
	TransferRepo       *testhelpers.MockTransferRepository
	WagerRepo          *testhelpers.MockWagerRepository
	CycleRepo          *testhelpers.MockCycleRepository
	PayrollRepo        *testhelpers.MockPayrollRepository
	CreatorSecretRepo  *testhelpers.MockCreatorSecretRepository
	EventPublisher     *testhelpers.MockEventPublisher
	Hasher             *testhelpers.MockSecretHasher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		AccountRepo:        &testhelpers.MockAccountRepository{},
		BalanceHistoryRepo: &testhelpers.MockBalanceHistoryRepository{},
		CreditRepo:         &testhelpers.MockCreditRepository{},
		TransferRepo:       &testhelpers.MockTransferRepository{},
		WagerRepo:          &testhelpers.MockWagerRepository{},
		CycleRepo:          &testhelpers.MockCycleRepository{},
		PayrollRepo:        &testhelpers.MockPayrollRepository{},
		CreatorSecretRepo:  &testhelpers.MockCreatorSecretRepository{},
		EventPublisher:     &testhelpers.MockEventPublisher{},
		Hasher:             &testhelpers.MockSecretHasher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.AccountRepo.AssertExpectations(t)
	m.BalanceHistoryRepo.AssertExpectations(t)
	m.CreditRepo.AssertExpectations(t)
	m.TransferRepo.AssertExpectations(t)
	m.WagerRepo.AssertExpectations(t)
	m.CycleRepo.AssertExpectations(t)
	m.PayrollRepo.AssertExpectations(t)
	m.CreatorSecretRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
	m.Hasher.AssertExpectations(t)
}

// AllowEvents accepts any published event
func (m *TestMocks) AllowEvents() {
	m.EventPublisher.On("Publish", mock.Anything).Return(nil)
}

// ExpectHistory accepts any balance history entry
func (m *TestMocks) ExpectHistory() {
	m.BalanceHistoryRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.BalanceHistory")).Return(nil)
}

func testAccount(id, balance int64) *entities.Account {
	return &entities.Account{
		ID:        id,
		Login:     fmt.Sprintf("user%d", id),
		Nickname:  fmt.Sprintf("nick%d", id),
		Balance:   balance,
		Role:      entities.RoleUser,
		Active:    true,
		CreatedAt: time.Now(),
	}
}
