package repository

import (
	"context"
	"errors"
	"fmt"

	"townbank/database"
	"townbank/domain/apperrors"
	"townbank/domain/entities"

	"github.com/jackc/pgx/v5"
)

const creditColumns = `id, account_id, principal, daily_rate, paid_amount, is_paid, created_at, paid_at`

// CreditRepository implements loan data access
type CreditRepository struct {
	q Queryable
}

// NewCreditRepository creates a new credit repository
func NewCreditRepository(db *database.DB) *CreditRepository {
	return &CreditRepository{q: db.Pool}
}

// newCreditRepositoryWithTx creates a new credit repository with a transaction
func newCreditRepositoryWithTx(tx Queryable) *CreditRepository {
	return &CreditRepository{q: tx}
}

func scanCredit(row pgx.Row) (*entities.Credit, error) {
	var credit entities.Credit
	err := row.Scan(
		&credit.ID,
		&credit.AccountID,
		&credit.Principal,
		&credit.DailyRate,
		&credit.PaidAmount,
		&credit.IsPaid,
		&credit.CreatedAt,
		&credit.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return &credit, nil
}

// Create inserts a new credit
func (r *CreditRepository) Create(ctx context.Context, credit *entities.Credit) error {
	query := `
		INSERT INTO credits (account_id, principal, daily_rate, paid_amount, is_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		credit.AccountID,
		credit.Principal,
		credit.DailyRate,
		credit.PaidAmount,
		credit.IsPaid,
		credit.CreatedAt,
	).Scan(&credit.ID)
	if err != nil {
		return fmt.Errorf("failed to create credit: %w", err)
	}
	return nil
}

// GetByID retrieves a credit by its ID
func (r *CreditRepository) GetByID(ctx context.Context, id int64) (*entities.Credit, error) {
	return r.get(ctx, `SELECT `+creditColumns+` FROM credits WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a credit and locks its row so concurrent repayments serialize
func (r *CreditRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Credit, error) {
	return r.get(ctx, `SELECT `+creditColumns+` FROM credits WHERE id = $1 FOR UPDATE`, id)
}

func (r *CreditRepository) get(ctx context.Context, query string, id int64) (*entities.Credit, error) {
	credit, err := scanCredit(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credit %d: %w", id, err)
	}
	return credit, nil
}

// GetByAccount returns the credits of an account, newest first
func (r *CreditRepository) GetByAccount(ctx context.Context, accountID int64, includePaid bool) ([]*entities.Credit, error) {
	query := `
		SELECT ` + creditColumns + `
		FROM credits
		WHERE account_id = $1 AND ($2 OR NOT is_paid)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, accountID, includePaid)
	if err != nil {
		return nil, fmt.Errorf("failed to get credits for account %d: %w", accountID, err)
	}
	defer rows.Close()

	credits := []*entities.Credit{}
	for rows.Next() {
		credit, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		credits = append(credits, credit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credits: %w", err)
	}
	return credits, nil
}

// UpdatePayment persists the repayment state of a credit
func (r *CreditRepository) UpdatePayment(ctx context.Context, credit *entities.Credit) error {
	query := `UPDATE credits SET paid_amount = $2, is_paid = $3, paid_at = $4 WHERE id = $1`

	result, err := r.q.Exec(ctx, query, credit.ID, credit.PaidAmount, credit.IsPaid, credit.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to update credit %d: %w", credit.ID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrCreditNotFound
	}
	return nil
}
