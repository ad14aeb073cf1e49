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

const (
	sessionColumns = `id, staff_id, player_id, stake, status, game_id, cancelled_by,
		created_at, committed_at, resolved_at, cancelled_at`
	gameColumns = `id, session_id, player_id, staff_id, stake, status, outcome,
		multiplier, win_probability, payout, created_at, finished_at`
)

// WagerRepository implements Depalka session and game data access
type WagerRepository struct {
	q Queryable
}

// NewWagerRepository creates a new wager repository
func NewWagerRepository(db *database.DB) *WagerRepository {
	return &WagerRepository{q: db.Pool}
}

// newWagerRepositoryWithTx creates a new wager repository with a transaction
func newWagerRepositoryWithTx(tx Queryable) *WagerRepository {
	return &WagerRepository{q: tx}
}

func scanSession(row pgx.Row) (*entities.WagerSession, error) {
	var session entities.WagerSession
	err := row.Scan(
		&session.ID,
		&session.StaffID,
		&session.PlayerID,
		&session.Stake,
		&session.Status,
		&session.GameID,
		&session.CancelledBy,
		&session.CreatedAt,
		&session.CommittedAt,
		&session.ResolvedAt,
		&session.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func scanGame(row pgx.Row) (*entities.WagerGame, error) {
	var game entities.WagerGame
	err := row.Scan(
		&game.ID,
		&game.SessionID,
		&game.PlayerID,
		&game.StaffID,
		&game.Stake,
		&game.Status,
		&game.Outcome,
		&game.Multiplier,
		&game.WinProbability,
		&game.Payout,
		&game.CreatedAt,
		&game.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// CreateSession inserts a new proposed session
func (r *WagerRepository) CreateSession(ctx context.Context, session *entities.WagerSession) error {
	query := `
		INSERT INTO wager_sessions (staff_id, player_id, stake, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		session.StaffID,
		session.PlayerID,
		session.Stake,
		session.Status,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wager session: %w", err)
	}
	return nil
}

// GetSessionByID retrieves a session by its ID
func (r *WagerRepository) GetSessionByID(ctx context.Context, id int64) (*entities.WagerSession, error) {
	return r.getSession(ctx, `SELECT `+sessionColumns+` FROM wager_sessions WHERE id = $1`, id)
}

// GetSessionByIDForUpdate retrieves a session and locks its row
func (r *WagerRepository) GetSessionByIDForUpdate(ctx context.Context, id int64) (*entities.WagerSession, error) {
	return r.getSession(ctx, `SELECT `+sessionColumns+` FROM wager_sessions WHERE id = $1 FOR UPDATE`, id)
}

func (r *WagerRepository) getSession(ctx context.Context, query string, id int64) (*entities.WagerSession, error) {
	session, err := scanSession(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager session %d: %w", id, err)
	}
	return session, nil
}

// GetSessionsByAccount returns sessions where the account is staff or player
func (r *WagerRepository) GetSessionsByAccount(ctx context.Context, accountID int64, activeOnly bool) ([]*entities.WagerSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM wager_sessions
		WHERE (staff_id = $1 OR player_id = $1)
		  AND (NOT $2 OR status IN ('proposed', 'player_committed'))
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, accountID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager sessions for account %d: %w", accountID, err)
	}
	defer rows.Close()

	sessions := []*entities.WagerSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wager sessions: %w", err)
	}
	return sessions, nil
}

// UpdateSession persists the mutable session fields
func (r *WagerRepository) UpdateSession(ctx context.Context, session *entities.WagerSession) error {
	query := `
		UPDATE wager_sessions
		SET stake = $2, status = $3, game_id = $4, cancelled_by = $5,
		    committed_at = $6, resolved_at = $7, cancelled_at = $8
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		session.ID,
		session.Stake,
		session.Status,
		session.GameID,
		session.CancelledBy,
		session.CommittedAt,
		session.ResolvedAt,
		session.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update wager session %d: %w", session.ID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// CreateGame inserts a confirmed game
func (r *WagerRepository) CreateGame(ctx context.Context, game *entities.WagerGame) error {
	query := `
		INSERT INTO wager_games (session_id, player_id, staff_id, stake, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		game.SessionID,
		game.PlayerID,
		game.StaffID,
		game.Stake,
		game.Status,
	).Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wager game: %w", err)
	}
	return nil
}

// GetGameByID retrieves a game by its ID
func (r *WagerRepository) GetGameByID(ctx context.Context, id int64) (*entities.WagerGame, error) {
	return r.getGame(ctx, `SELECT `+gameColumns+` FROM wager_games WHERE id = $1`, id)
}

// GetGameByIDForUpdate retrieves a game and locks its row
func (r *WagerRepository) GetGameByIDForUpdate(ctx context.Context, id int64) (*entities.WagerGame, error) {
	return r.getGame(ctx, `SELECT `+gameColumns+` FROM wager_games WHERE id = $1 FOR UPDATE`, id)
}

func (r *WagerRepository) getGame(ctx context.Context, query string, id int64) (*entities.WagerGame, error) {
	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager game %d: %w", id, err)
	}
	return game, nil
}

// UpdateGame persists the outcome of a game
func (r *WagerRepository) UpdateGame(ctx context.Context, game *entities.WagerGame) error {
	query := `
		UPDATE wager_games
		SET status = $2, outcome = $3, multiplier = $4, win_probability = $5,
		    payout = $6, finished_at = $7
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		game.ID,
		game.Status,
		game.Outcome,
		game.Multiplier,
		game.WinProbability,
		game.Payout,
		game.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update wager game %d: %w", game.ID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrGameNotFound
	}
	return nil
}
