package repository

import (
	"context"
	"testing"
	"time"

	"townbank/domain/entities"
	"townbank/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	repo := NewPayrollRepository(testDB.DB)
	ctx := context.Background()

	running, err := repo.GetRunning(ctx)
	require.NoError(t, err)
	assert.Nil(t, running)

	run := &entities.PayrollRun{Status: entities.PayrollRunStatusRunning, StartedAt: time.Now()}
	require.NoError(t, repo.CreateRun(ctx, run))

	t.Run("only one running run", func(t *testing.T) {
		second := &entities.PayrollRun{Status: entities.PayrollRunStatusRunning, StartedAt: time.Now()}
		assert.Error(t, repo.CreateRun(ctx, second))
	})

	t.Run("payment is recorded once per run", func(t *testing.T) {
		account := testutil.InsertTestAccount(t, accounts, 0)
		payment := &entities.PayrollPayment{RunID: run.ID, AccountID: account.ID, Amount: 50, CreatedAt: time.Now()}

		inserted, err := repo.RecordPayment(ctx, payment)
		require.NoError(t, err)
		assert.True(t, inserted)

		again := &entities.PayrollPayment{RunID: run.ID, AccountID: account.ID, Amount: 50, CreatedAt: time.Now()}
		inserted, err = repo.RecordPayment(ctx, again)
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	t.Run("partial progress keeps the run open", func(t *testing.T) {
		run.AccountsPaid = 1
		run.AccountsFailed = 1
		run.TotalPaid = 50
		run.ExecutionSummary = map[string]any{"failed_account_ids": []int64{99}}
		require.NoError(t, repo.UpdateRun(ctx, run))

		running, err := repo.GetRunning(ctx)
		require.NoError(t, err)
		require.NotNil(t, running)
		assert.Equal(t, run.ID, running.ID)
		assert.Equal(t, 1, running.AccountsFailed)
		assert.Equal(t, int64(50), running.TotalPaid)
		assert.Nil(t, running.CompletedAt)
	})

	t.Run("complete run", func(t *testing.T) {
		run.AccountsFailed = 0
		now := time.Now()
		run.Status = entities.PayrollRunStatusCompleted
		run.AccountsPaid = 1
		run.TotalPaid = 50
		run.CompletedAt = &now
		run.ExecutionSummary = map[string]any{"accounts_skipped": 0}
		require.NoError(t, repo.UpdateRun(ctx, run))

		running, err := repo.GetRunning(ctx)
		require.NoError(t, err)
		assert.Nil(t, running)

		latest, err := repo.GetLatestRun(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, run.ID, latest.ID)
		assert.Equal(t, int64(50), latest.TotalPaid)
		assert.Equal(t, float64(0), latest.ExecutionSummary["accounts_skipped"])
	})
}

func TestCycleRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCycleRepository(testDB.DB)
	ctx := context.Background()

	state, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.IsDay)

	state.IsDay = false
	state.LastChange = time.Now()
	require.NoError(t, repo.Update(ctx, state))

	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, stored.IsDay)
	assert.Nil(t, stored.ChangedBy)
}
