package repository

import (
	"context"
	"errors"
	"fmt"

	"townbank/database"
	"townbank/domain/entities"

	"github.com/jackc/pgx/v5"
)

const transferColumns = `id, sender_id, receiver_id, amount, fee, kind, related_id, created_at`

// TransferRepository implements transfer record access
type TransferRepository struct {
	q Queryable
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *database.DB) *TransferRepository {
	return &TransferRepository{q: db.Pool}
}

// newTransferRepositoryWithTx creates a new transfer repository with a transaction
func newTransferRepositoryWithTx(tx Queryable) *TransferRepository {
	return &TransferRepository{q: tx}
}

func scanTransfer(row pgx.Row) (*entities.Transfer, error) {
	var transfer entities.Transfer
	err := row.Scan(
		&transfer.ID,
		&transfer.SenderID,
		&transfer.ReceiverID,
		&transfer.Amount,
		&transfer.Fee,
		&transfer.Kind,
		&transfer.RelatedID,
		&transfer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// Create inserts a transfer record
func (r *TransferRepository) Create(ctx context.Context, transfer *entities.Transfer) error {
	query := `
		INSERT INTO transfers (sender_id, receiver_id, amount, fee, kind, related_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		transfer.SenderID,
		transfer.ReceiverID,
		transfer.Amount,
		transfer.Fee,
		transfer.Kind,
		transfer.RelatedID,
	).Scan(&transfer.ID, &transfer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

// GetByID retrieves a transfer by its ID
func (r *TransferRepository) GetByID(ctx context.Context, id int64) (*entities.Transfer, error) {
	transfer, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer %d: %w", id, err)
	}
	return transfer, nil
}

// GetByAccount returns transfers sent or received by an account, newest first
func (r *TransferRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfers for account %d: %w", accountID, err)
	}
	defer rows.Close()

	transfers := []*entities.Transfer{}
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}
	return transfers, nil
}
