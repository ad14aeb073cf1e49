package repository

import (
	"context"
	"testing"
	"time"

	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatorSecretRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	repo := NewCreatorSecretRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.InsertTestAccount(t, accounts, 0)

	newSecret := func() *entities.CreatorSecret {
		secret := &entities.CreatorSecret{ID: uuid.New(), SecretHash: "hash", CreatedAt: time.Now()}
		require.NoError(t, repo.Create(ctx, secret))
		return secret
	}

	t.Run("unknown secret", func(t *testing.T) {
		secret, err := repo.GetByIDForUpdate(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, secret)
	})

	t.Run("consumed only once", func(t *testing.T) {
		secret := newSecret()

		require.NoError(t, repo.MarkConsumed(ctx, secret.ID, account.ID, time.Now()))
		err := repo.MarkConsumed(ctx, secret.ID, account.ID, time.Now())
		assert.ErrorIs(t, err, apperrors.ErrInvalidSecretKey)

		stored, err := repo.GetByIDForUpdate(ctx, secret.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsUsable())
		assert.Equal(t, account.ID, *stored.ConsumedBy)
	})

	t.Run("revoked secrets are not listed", func(t *testing.T) {
		kept := newSecret()
		revoked := newSecret()
		require.NoError(t, repo.Revoke(ctx, revoked.ID, time.Now()))
		assert.ErrorIs(t, repo.Revoke(ctx, revoked.ID, time.Now()), apperrors.ErrSecretNotFound)

		usable, err := repo.ListUsable(ctx)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(usable))
		for _, secret := range usable {
			ids = append(ids, secret.ID)
		}
		assert.Contains(t, ids, kept.ID)
		assert.NotContains(t, ids, revoked.ID)
	})
}
