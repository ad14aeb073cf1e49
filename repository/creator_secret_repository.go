package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"townbank/database"
	"townbank/domain/apperrors"
	"townbank/domain/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const creatorSecretColumns = `id, secret_hash, created_by, consumed_by, created_at, consumed_at, revoked_at`

// CreatorSecretRepository implements creator enrollment secret storage
type CreatorSecretRepository struct {
	q Queryable
}

// NewCreatorSecretRepository creates a new creator secret repository
func NewCreatorSecretRepository(db *database.DB) *CreatorSecretRepository {
	return &CreatorSecretRepository{q: db.Pool}
}

// newCreatorSecretRepositoryWithTx creates a new creator secret repository with a transaction
func newCreatorSecretRepositoryWithTx(tx Queryable) *CreatorSecretRepository {
	return &CreatorSecretRepository{q: tx}
}

func scanCreatorSecret(row pgx.Row) (*entities.CreatorSecret, error) {
	var secret entities.CreatorSecret
	err := row.Scan(
		&secret.ID,
		&secret.SecretHash,
		&secret.CreatedBy,
		&secret.ConsumedBy,
		&secret.CreatedAt,
		&secret.ConsumedAt,
		&secret.RevokedAt,
	)
	if err != nil {
		return nil, err
	}
	return &secret, nil
}

// Create inserts a new secret
func (r *CreatorSecretRepository) Create(ctx context.Context, secret *entities.CreatorSecret) error {
	query := `
		INSERT INTO creator_secrets (id, secret_hash, created_by, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.q.Exec(ctx, query, secret.ID, secret.SecretHash, secret.CreatedBy, secret.CreatedAt); err != nil {
		return fmt.Errorf("failed to create creator secret: %w", err)
	}
	return nil
}

// GetByIDForUpdate retrieves a secret and locks its row so it can be consumed once
func (r *CreatorSecretRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.CreatorSecret, error) {
	secret, err := scanCreatorSecret(r.q.QueryRow(ctx, `SELECT `+creatorSecretColumns+` FROM creator_secrets WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creator secret: %w", err)
	}
	return secret, nil
}

// MarkConsumed records the account that exchanged the secret
func (r *CreatorSecretRepository) MarkConsumed(ctx context.Context, id uuid.UUID, accountID int64, at time.Time) error {
	query := `
		UPDATE creator_secrets
		SET consumed_by = $2, consumed_at = $3
		WHERE id = $1 AND consumed_at IS NULL AND revoked_at IS NULL
	`

	result, err := r.q.Exec(ctx, query, id, accountID, at)
	if err != nil {
		return fmt.Errorf("failed to consume creator secret: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrInvalidSecretKey
	}
	return nil
}

// Revoke disables a secret that has not been consumed yet
func (r *CreatorSecretRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE creator_secrets SET revoked_at = $2 WHERE id = $1 AND consumed_at IS NULL AND revoked_at IS NULL`

	result, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to revoke creator secret: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrSecretNotFound
	}
	return nil
}

// ListUsable returns secrets that are neither consumed nor revoked
func (r *CreatorSecretRepository) ListUsable(ctx context.Context) ([]*entities.CreatorSecret, error) {
	query := `
		SELECT ` + creatorSecretColumns + `
		FROM creator_secrets
		WHERE consumed_at IS NULL AND revoked_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator secrets: %w", err)
	}
	defer rows.Close()

	secrets := []*entities.CreatorSecret{}
	for rows.Next() {
		secret, err := scanCreatorSecret(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan creator secret: %w", err)
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate creator secrets: %w", err)
	}
	return secrets, nil
}
