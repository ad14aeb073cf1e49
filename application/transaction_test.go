package application

import (
	"context"
	"errors"
	"testing"

	"townbank/domain/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		factory := newFakeUnitOfWorkFactory()
		result, err := inTransaction(ctx, factory, "noop", func(uow UnitOfWork) (int, error) {
			return 7, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 7, result)
		assert.Equal(t, 1, factory.commits)
		assert.Equal(t, 0, factory.rollbacks)
	})

	t.Run("typed errors pass through and roll back", func(t *testing.T) {
		factory := newFakeUnitOfWorkFactory()
		_, err := inTransaction(ctx, factory, "noop", func(uow UnitOfWork) (int, error) {
			return 0, apperrors.ErrInsufficientFunds
		})
		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
		assert.Equal(t, 0, factory.commits)
		assert.Equal(t, 1, factory.rollbacks)
	})

	t.Run("untyped errors become internal", func(t *testing.T) {
		factory := newFakeUnitOfWorkFactory()
		_, err := inTransaction(ctx, factory, "noop", func(uow UnitOfWork) (int, error) {
			return 0, errors.New("connection reset")
		})
		assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
		assert.Equal(t, 1, factory.rollbacks)
	})
}

func TestReadOnly_AlwaysRollsBack(t *testing.T) {
	factory := newFakeUnitOfWorkFactory()
	_, err := readOnly(context.Background(), factory, "noop", func(uow UnitOfWork) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, factory.commits)
	assert.Equal(t, 1, factory.rollbacks)
}
