package application

import (
	"context"

	"townbank/domain/apperrors"

	log "github.com/sirupsen/logrus"
)

// inTransaction runs fn in a fresh unit of work and commits when it succeeds.
// Any failure rolls the whole unit back.
func inTransaction[T any](ctx context.Context, factory UnitOfWorkFactory, operation string, fn func(uow UnitOfWork) (T, error)) (T, error) {
	var zero T

	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return zero, apperrors.Internal(err, "failed to begin transaction")
	}
	defer func() {
		if err := uow.Rollback(); err != nil {
			log.WithError(err).WithField("operation", operation).Warn("Rollback failed")
		}
	}()

	result, err := fn(uow)
	if err != nil {
		return zero, apperrors.Wrap(err, operation+" failed")
	}

	if err := uow.Commit(); err != nil {
		return zero, apperrors.Internal(err, "failed to commit transaction")
	}
	return result, nil
}

// readOnly runs fn in a unit of work that is always rolled back
func readOnly[T any](ctx context.Context, factory UnitOfWorkFactory, operation string, fn func(uow UnitOfWork) (T, error)) (T, error) {
	var zero T

	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return zero, apperrors.Internal(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	result, err := fn(uow)
	if err != nil {
		return zero, apperrors.Wrap(err, operation+" failed")
	}
	return result, nil
}
