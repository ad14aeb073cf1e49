package application_test

import (
	"context"
	"testing"

	"townbank/application"
	"townbank/config"
	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/infrastructure"
	"townbank/repository"
	"townbank/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceCycle_PaysSalariesOnce(t *testing.T) {
	t.Parallel()
	config.SetTestConfig(config.NewTestConfig())
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(testDB.DB)
	baker := testutil.InsertTestAccount(t, accounts, 100)
	smith := testutil.InsertTestAccount(t, accounts, 100)
	idle := testutil.InsertTestAccount(t, accounts, 100)
	require.NoError(t, accounts.SetJob(ctx, baker.ID, &entities.Job{Title: "baker", Salary: 50}))
	require.NoError(t, accounts.SetJob(ctx, smith.ID, &entities.Job{Title: "smith", Salary: 75}))

	handler := application.NewCycleHandler(infrastructure.NewUnitOfWorkFactory(testDB.DB, infrastructure.NewLocalEventPublisher()))

	result, err := handler.AdvanceCycle(ctx, nil, "endDay")
	require.NoError(t, err)
	assert.False(t, result.State.IsDay)
	require.NotNil(t, result.Payroll)
	assert.Equal(t, 2, result.Payroll.AccountsPaid)
	assert.Equal(t, int64(125), result.Payroll.TotalPaid)

	for id, want := range map[int64]int64{baker.ID: 150, smith.ID: 175, idle.ID: 100} {
		account, err := accounts.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, account.Balance, "account %d", id)
	}

	// Ending the day twice must not pay again
	_, err = handler.AdvanceCycle(ctx, nil, "endDay")
	assert.ErrorIs(t, err, apperrors.ErrCycleAlreadyInState)

	state, err := handler.GetCycle(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsDay)

	result, err = handler.AdvanceCycle(ctx, nil, "endNight")
	require.NoError(t, err)
	assert.True(t, result.State.IsDay)

	account, err := accounts.GetByID(ctx, baker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), account.Balance)
}
