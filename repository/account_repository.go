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

const accountColumns = `
	id, login, password_hash, nickname, nickname_set, balance, role,
	job_title, job_salary, casino_staff, active, created_at, updated_at`

// AccountRepository implements account data access
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	var jobTitle *string
	var jobSalary *int64
	err := row.Scan(
		&account.ID,
		&account.Login,
		&account.PasswordHash,
		&account.Nickname,
		&account.NicknameSet,
		&account.Balance,
		&account.Role,
		&jobTitle,
		&jobSalary,
		&account.CasinoStaff,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if jobTitle != nil && jobSalary != nil {
		account.Job = &entities.Job{Title: *jobTitle, Salary: *jobSalary}
	}
	return &account, nil
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg any) (*entities.Account, error) {
	account, err := scanAccount(r.q.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	account, err := r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return account, nil
}

// GetByIDForUpdate retrieves an account and locks its row
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	account, err := r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
	}
	return account, nil
}

// GetByNickname retrieves an account by its nickname
func (r *AccountRepository) GetByNickname(ctx context.Context, nickname string) (*entities.Account, error) {
	account, err := r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE nickname = $1`, nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by nickname: %w", err)
	}
	return account, nil
}

// GetByLogin retrieves an account by its login
func (r *AccountRepository) GetByLogin(ctx context.Context, login string) (*entities.Account, error) {
	account, err := r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE login = $1`, login)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by login: %w", err)
	}
	return account, nil
}

// LockAccounts locks rows in ascending id order so concurrent transfers between
// the same pair of accounts cannot deadlock
func (r *AccountRepository) LockAccounts(ctx context.Context, ids ...int64) (map[int64]*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	locked := make(map[int64]*entities.Account, len(ids))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		locked[account.ID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return locked, nil
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	query := `
		INSERT INTO accounts (login, password_hash, nickname, balance, role, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		account.Login,
		account.PasswordHash,
		account.Nickname,
		account.Balance,
		account.Role,
		account.Active,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		switch uniqueViolationConstraint(err) {
		case "accounts_login_key":
			return apperrors.ErrLoginTaken
		case "accounts_nickname_key":
			return apperrors.ErrNicknameTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// AdjustBalance applies delta in a single guarded statement
func (r *AccountRepository) AdjustBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND balance + $2 >= 0
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to adjust balance for account %d: %w", id, err)
	}

	// No row updated: either the account is missing or the guard rejected the delta
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check account %d: %w", id, err)
	}
	if !exists {
		return 0, apperrors.ErrAccountNotFound
	}
	return 0, apperrors.ErrInsufficientFunds
}

// SetNickname replaces the default nickname
func (r *AccountRepository) SetNickname(ctx context.Context, id int64, nickname string) error {
	query := `UPDATE accounts SET nickname = $2, nickname_set = TRUE, updated_at = NOW() WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id, nickname)
	if err != nil {
		if uniqueViolationConstraint(err) == "accounts_nickname_key" {
			return apperrors.ErrNicknameTaken
		}
		return fmt.Errorf("failed to set nickname: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// SetRole updates the role of an account
func (r *AccountRepository) SetRole(ctx context.Context, id int64, role entities.Role) error {
	return r.exec(ctx, `UPDATE accounts SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
}

// SetJob assigns a job, or clears it when job is nil
func (r *AccountRepository) SetJob(ctx context.Context, id int64, job *entities.Job) error {
	var title *string
	var salary *int64
	if job != nil {
		title = &job.Title
		salary = &job.Salary
	}
	return r.exec(ctx, `UPDATE accounts SET job_title = $2, job_salary = $3, updated_at = NOW() WHERE id = $1`, id, title, salary)
}

// SetCasinoStaff updates the casino staff flag
func (r *AccountRepository) SetCasinoStaff(ctx context.Context, id int64, casinoStaff bool) error {
	return r.exec(ctx, `UPDATE accounts SET casino_staff = $2, updated_at = NOW() WHERE id = $1`, id, casinoStaff)
}

// SetActive updates the active flag
func (r *AccountRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.exec(ctx, `UPDATE accounts SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
}

func (r *AccountRepository) exec(ctx context.Context, query string, id int64, args ...any) error {
	result, err := r.q.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// ListEmployed returns active accounts with a job, ordered by id
func (r *AccountRepository) ListEmployed(ctx context.Context) ([]*entities.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE job_salary IS NOT NULL AND active
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employed accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entities.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}
