package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"townbank/database"
	"townbank/domain/entities"

	"github.com/jackc/pgx/v5"
)

const payrollRunColumns = `id, status, started_by, accounts_paid, accounts_failed, total_paid,
	execution_summary, started_at, completed_at`

// PayrollRepository implements salary run data access
type PayrollRepository struct {
	q Queryable
}

// NewPayrollRepository creates a new payroll repository
func NewPayrollRepository(db *database.DB) *PayrollRepository {
	return &PayrollRepository{q: db.Pool}
}

// newPayrollRepositoryWithTx creates a new payroll repository with a transaction
func newPayrollRepositoryWithTx(tx Queryable) *PayrollRepository {
	return &PayrollRepository{q: tx}
}

func scanPayrollRun(row pgx.Row) (*entities.PayrollRun, error) {
	var run entities.PayrollRun
	var summaryJSON []byte
	err := row.Scan(
		&run.ID,
		&run.Status,
		&run.StartedBy,
		&run.AccountsPaid,
		&run.AccountsFailed,
		&run.TotalPaid,
		&summaryJSON,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.ExecutionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution summary: %w", err)
		}
	}
	return &run, nil
}

// GetRunning returns the run still in progress, or nil
func (r *PayrollRepository) GetRunning(ctx context.Context) (*entities.PayrollRun, error) {
	return r.getOne(ctx, `SELECT `+payrollRunColumns+` FROM payroll_runs WHERE status = 'running'`)
}

// GetLatestRun returns the most recently started run, or nil
func (r *PayrollRepository) GetLatestRun(ctx context.Context) (*entities.PayrollRun, error) {
	return r.getOne(ctx, `SELECT `+payrollRunColumns+` FROM payroll_runs ORDER BY started_at DESC, id DESC LIMIT 1`)
}

func (r *PayrollRepository) getOne(ctx context.Context, query string) (*entities.PayrollRun, error) {
	run, err := scanPayrollRun(r.q.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

// CreateRun inserts a new running run
func (r *PayrollRepository) CreateRun(ctx context.Context, run *entities.PayrollRun) error {
	query := `
		INSERT INTO payroll_runs (status, started_by, started_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err := r.q.QueryRow(ctx, query, run.Status, run.StartedBy, run.StartedAt).Scan(&run.ID); err != nil {
		return fmt.Errorf("failed to create payroll run: %w", err)
	}
	return nil
}

// UpdateRun stores the status and totals of a run
func (r *PayrollRepository) UpdateRun(ctx context.Context, run *entities.PayrollRun) error {
	summaryJSON, err := json.Marshal(run.ExecutionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	query := `
		UPDATE payroll_runs
		SET status = $2, accounts_paid = $3, accounts_failed = $4, total_paid = $5,
		    execution_summary = $6, completed_at = $7
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		run.ID,
		run.Status,
		run.AccountsPaid,
		run.AccountsFailed,
		run.TotalPaid,
		summaryJSON,
		run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll run %d: %w", run.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("payroll run %d not found", run.ID)
	}
	return nil
}

// RecordPayment inserts a payment unless the account was already paid in this run
func (r *PayrollRepository) RecordPayment(ctx context.Context, payment *entities.PayrollPayment) (bool, error) {
	query := `
		INSERT INTO payroll_payments (run_id, account_id, amount, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id, account_id) DO NOTHING
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query, payment.RunID, payment.AccountID, payment.Amount, payment.CreatedAt).Scan(&payment.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to record payroll payment: %w", err)
	}
	return true, nil
}
