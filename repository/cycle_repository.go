package repository

import (
	"context"
	"errors"
	"fmt"

	"townbank/database"
	"townbank/domain/entities"

	"github.com/jackc/pgx/v5"
)

// CycleRepository implements access to the day/night singleton row
type CycleRepository struct {
	q Queryable
}

// NewCycleRepository creates a new cycle repository
func NewCycleRepository(db *database.DB) *CycleRepository {
	return &CycleRepository{q: db.Pool}
}

// newCycleRepositoryWithTx creates a new cycle repository with a transaction
func newCycleRepositoryWithTx(tx Queryable) *CycleRepository {
	return &CycleRepository{q: tx}
}

// Get returns the current cycle state
func (r *CycleRepository) Get(ctx context.Context) (*entities.CycleState, error) {
	return r.get(ctx, `SELECT is_day, last_change, changed_by FROM cycle_state WHERE id = 1`)
}

// GetForUpdate returns the cycle state and locks the row.
// Every phase change goes through this lock.
func (r *CycleRepository) GetForUpdate(ctx context.Context) (*entities.CycleState, error) {
	return r.get(ctx, `SELECT is_day, last_change, changed_by FROM cycle_state WHERE id = 1 FOR UPDATE`)
}

func (r *CycleRepository) get(ctx context.Context, query string) (*entities.CycleState, error) {
	var state entities.CycleState
	err := r.q.QueryRow(ctx, query).Scan(&state.IsDay, &state.LastChange, &state.ChangedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle state: %w", err)
	}
	return &state, nil
}

// Update persists the cycle state
func (r *CycleRepository) Update(ctx context.Context, state *entities.CycleState) error {
	query := `UPDATE cycle_state SET is_day = $1, last_change = $2, changed_by = $3 WHERE id = 1`

	result, err := r.q.Exec(ctx, query, state.IsDay, state.LastChange, state.ChangedBy)
	if err != nil {
		return fmt.Errorf("failed to update cycle state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("cycle state row is missing")
	}
	return nil
}
