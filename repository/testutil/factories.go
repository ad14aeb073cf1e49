package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"townbank/domain/entities"

	"github.com/stretchr/testify/require"
)

var accountSeq atomic.Int64

// AccountCreator is the subset of the account repository the factories need
type AccountCreator interface {
	Create(ctx context.Context, account *entities.Account) error
}

// CreateTestAccount creates an account with a unique login and nickname
func CreateTestAccount(balance int64) *entities.Account {
	n := accountSeq.Add(1)
	return &entities.Account{
		Login:        fmt.Sprintf("tester_%d", n),
		PasswordHash: "not-a-real-hash",
		Nickname:     fmt.Sprintf("player-t%07d", n),
		Balance:      balance,
		Role:         entities.RoleUser,
		Active:       true,
	}
}

// InsertTestAccount persists a new account with the given balance
func InsertTestAccount(t *testing.T, repo AccountCreator, balance int64) *entities.Account {
	t.Helper()
	account := CreateTestAccount(balance)
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

// CreateTestBalanceHistory creates a balance history entry consistent with its amounts
func CreateTestBalanceHistory(accountID, before, change int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   before,
		BalanceAfter:    before + change,
		ChangeAmount:    change,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestCredit creates an unpaid credit taken at the given time
func CreateTestCredit(accountID, principal int64, createdAt time.Time) *entities.Credit {
	return &entities.Credit{
		AccountID: accountID,
		Principal: principal,
		DailyRate: entities.DefaultDailyRate,
		CreatedAt: createdAt,
	}
}
