package repository

import (
	"context"
	"testing"

	"townbank/domain/entities"
	"townbank/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceHistoryRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.InsertTestAccount(t, accounts, 0)

	entries := []*entities.BalanceHistory{
		testutil.CreateTestBalanceHistory(account.ID, 0, 1000, entities.TransactionTypeInitial),
		testutil.CreateTestBalanceHistory(account.ID, 1000, -200, entities.TransactionTypeTransferOut),
		testutil.CreateTestBalanceHistory(account.ID, 800, 50, entities.TransactionTypeSalary),
	}
	relatedID, relatedType := entities.NewRelatedRef(42, entities.RelatedTypeTransfer)
	entries[1].RelatedID = relatedID
	entries[1].RelatedType = relatedType

	for _, entry := range entries {
		require.NoError(t, repo.Record(ctx, entry))
		assert.NotZero(t, entry.ID)
	}

	t.Run("newest first with metadata", func(t *testing.T) {
		history, err := repo.GetByAccount(ctx, account.ID, 10)
		require.NoError(t, err)
		require.Len(t, history, 3)

		assert.Equal(t, entities.TransactionTypeSalary, history[0].TransactionType)
		assert.Equal(t, true, history[0].TransactionMetadata["test"])
		require.NotNil(t, history[1].RelatedID)
		assert.Equal(t, int64(42), *history[1].RelatedID)
		assert.Equal(t, entities.RelatedTypeTransfer, *history[1].RelatedType)
	})

	t.Run("limit", func(t *testing.T) {
		history, err := repo.GetByAccount(ctx, account.ID, 2)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("sum of changes", func(t *testing.T) {
		total, err := repo.SumChanges(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(850), total)
	})

	t.Run("empty history", func(t *testing.T) {
		other := testutil.InsertTestAccount(t, accounts, 0)
		history, err := repo.GetByAccount(ctx, other.ID, 10)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}
