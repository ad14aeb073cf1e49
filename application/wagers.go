package application

import (
	"context"

	"townbank/domain/entities"
	"townbank/domain/interfaces"
	"townbank/domain/services"
)

// WagerHandler orchestrates the Depalka session protocol
type WagerHandler struct {
	uowFactory UnitOfWorkFactory
	drawer     interfaces.OutcomeDrawer
}

// NewWagerHandler creates a new wager handler. A nil drawer draws at random.
func NewWagerHandler(uowFactory UnitOfWorkFactory, drawer interfaces.OutcomeDrawer) *WagerHandler {
	return &WagerHandler{
		uowFactory: uowFactory,
		drawer:     drawer,
	}
}

func (h *WagerHandler) service(uow UnitOfWork) interfaces.WagerService {
	return services.NewWagerService(
		uow.AccountRepository(),
		uow.WagerRepository(),
		uow.TransferRepository(),
		uow.BalanceHistoryRepository(),
		uow.EventBus(),
		h.drawer,
	)
}

// InitiateSession proposes a session to a player
func (h *WagerHandler) InitiateSession(ctx context.Context, staffID, targetID int64) (*entities.WagerSession, error) {
	return inTransaction(ctx, h.uowFactory, "initiate session", func(uow UnitOfWork) (*entities.WagerSession, error) {
		return h.service(uow).InitiateSession(ctx, staffID, targetID)
	})
}

// CommitStake debits the player's stake
func (h *WagerHandler) CommitStake(ctx context.Context, sessionID, playerID, stake int64) (*entities.StakeResult, error) {
	return inTransaction(ctx, h.uowFactory, "commit stake", func(uow UnitOfWork) (*entities.StakeResult, error) {
		return h.service(uow).CommitStake(ctx, sessionID, playerID, stake)
	})
}

// ResolveGame draws the outcome of a confirmed game
func (h *WagerHandler) ResolveGame(ctx context.Context, gameID, staffID int64, winProbability, multiplier float64) (*entities.ResolutionResult, error) {
	return inTransaction(ctx, h.uowFactory, "resolve game", func(uow UnitOfWork) (*entities.ResolutionResult, error) {
		return h.service(uow).ResolveGame(ctx, gameID, staffID, winProbability, multiplier)
	})
}

// CancelSession aborts a proposed session on behalf of its initiator
func (h *WagerHandler) CancelSession(ctx context.Context, sessionID, requesterID int64) (*entities.WagerSession, error) {
	return inTransaction(ctx, h.uowFactory, "cancel session", func(uow UnitOfWork) (*entities.WagerSession, error) {
		return h.service(uow).CancelSession(ctx, sessionID, requesterID)
	})
}

// DeclineSession aborts a proposed session on behalf of its target
func (h *WagerHandler) DeclineSession(ctx context.Context, sessionID, playerID int64) (*entities.WagerSession, error) {
	return inTransaction(ctx, h.uowFactory, "decline session", func(uow UnitOfWork) (*entities.WagerSession, error) {
		return h.service(uow).DeclineSession(ctx, sessionID, playerID)
	})
}

// GetSession returns a session the account takes part in
func (h *WagerHandler) GetSession(ctx context.Context, sessionID, accountID int64) (*entities.WagerSession, error) {
	return readOnly(ctx, h.uowFactory, "get session", func(uow UnitOfWork) (*entities.WagerSession, error) {
		return h.service(uow).GetSession(ctx, sessionID, accountID)
	})
}

// GetGame returns a game the account takes part in
func (h *WagerHandler) GetGame(ctx context.Context, gameID, accountID int64) (*entities.WagerGame, error) {
	return readOnly(ctx, h.uowFactory, "get game", func(uow UnitOfWork) (*entities.WagerGame, error) {
		return h.service(uow).GetGame(ctx, gameID, accountID)
	})
}

// ListSessions returns the sessions of the account
func (h *WagerHandler) ListSessions(ctx context.Context, accountID int64, activeOnly bool) ([]*entities.WagerSession, error) {
	return readOnly(ctx, h.uowFactory, "list sessions", func(uow UnitOfWork) ([]*entities.WagerSession, error) {
		return h.service(uow).ListSessions(ctx, accountID, activeOnly)
	})
}
