package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"townbank/config"
	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/domain/events"
	"townbank/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RandomOutcomeDrawer draws outcomes from the process-wide random source
type RandomOutcomeDrawer struct{}

// Draw returns a win with probability winProbability
func (RandomOutcomeDrawer) Draw(winProbability float64) entities.WagerOutcome {
	if rand.Float64() < winProbability {
		return entities.WagerOutcomeWin
	}
	return entities.WagerOutcomeLose
}

type wagerService struct {
	accountRepo    interfaces.AccountRepository
	wagerRepo      interfaces.WagerRepository
	transferRepo   interfaces.TransferRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
	drawer         interfaces.OutcomeDrawer
}

// NewWagerService creates a new Depalka wager service. A nil drawer uses RandomOutcomeDrawer.
func NewWagerService(
	accountRepo interfaces.AccountRepository,
	wagerRepo interfaces.WagerRepository,
	transferRepo interfaces.TransferRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	drawer interfaces.OutcomeDrawer,
) interfaces.WagerService {
	if drawer == nil {
		drawer = RandomOutcomeDrawer{}
	}
	return &wagerService{
		accountRepo:    accountRepo,
		wagerRepo:      wagerRepo,
		transferRepo:   transferRepo,
		ledger:         NewLedgerService(accountRepo, balanceHistoryRepo, eventPublisher),
		eventPublisher: eventPublisher,
		drawer:         drawer,
	}
}

func (s *wagerService) InitiateSession(ctx context.Context, staffID, targetID int64) (*entities.WagerSession, error) {
	staff, err := s.accountRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff account: %w", err)
	}
	if staff == nil {
		return nil, apperrors.ErrAccountNotFound
	}
	if !staff.CasinoStaff || !staff.Active {
		return nil, apperrors.ErrNotCasinoStaff
	}
	if staffID == targetID {
		return nil, apperrors.ErrInvalidWagerTarget
	}

	target, err := s.accountRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get target account: %w", err)
	}
	if target == nil || !target.Active {
		return nil, apperrors.ErrAccountNotFound.WithMessage("target player not found")
	}

	session := &entities.WagerSession{
		StaffID:   staffID,
		PlayerID:  targetID,
		Status:    entities.WagerSessionStatusProposed,
		CreatedAt: time.Now(),
	}
	if err := s.wagerRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create wager session: %w", err)
	}

	s.publishStateChange(session, "")

	log.WithFields(log.Fields{
		"sessionID": session.ID,
		"staffID":   staffID,
		"playerID":  targetID,
	}).Info("Depalka session proposed")

	return session, nil
}

func (s *wagerService) CommitStake(ctx context.Context, sessionID, playerID int64, stake int64) (*entities.StakeResult, error) {
	session, err := s.wagerRepo.GetSessionByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}
	if session.PlayerID != playerID {
		return nil, apperrors.ErrUnauthorizedPlayer
	}
	if !session.CanBeCommitted() {
		return nil, apperrors.ErrSessionNotPending
	}
	if stake <= 0 {
		return nil, apperrors.ErrInvalidAmount.WithMessage("stake must be positive")
	}

	player, err := s.accountRepo.GetByIDForUpdate(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player account: %w", err)
	}
	if player == nil {
		return nil, apperrors.ErrAccountNotFound
	}
	if !player.HasSufficientBalance(stake) {
		return nil, apperrors.ErrInsufficientBalance
	}

	now := time.Now()
	game := &entities.WagerGame{
		SessionID: session.ID,
		PlayerID:  session.PlayerID,
		StaffID:   session.StaffID,
		Stake:     stake,
		Status:    entities.WagerGameStatusConfirmed,
		CreatedAt: now,
	}
	if err := s.wagerRepo.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create wager game: %w", err)
	}

	relatedID, relatedType := entities.NewRelatedRef(game.ID, entities.RelatedTypeWagerGame)
	history, err := debit(ctx, s.ledger, entities.BalanceAdjustment{
		AccountID:       playerID,
		Delta:           -stake,
		TransactionType: entities.TransactionTypeWagerStake,
		Metadata: map[string]any{
			"session_id": session.ID,
			"game_id":    game.ID,
			"staff_id":   session.StaffID,
		},
		RelatedID:   relatedID,
		RelatedType: relatedType,
	})
	if err != nil {
		return nil, err
	}

	oldStatus := session.Status
	session.MarkCommitted(stake, game.ID, now)
	if err := s.wagerRepo.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update wager session: %w", err)
	}

	s.publishStateChange(session, oldStatus)

	log.WithFields(log.Fields{
		"sessionID": session.ID,
		"gameID":    game.ID,
		"playerID":  playerID,
		"stake":     stake,
	}).Info("Depalka stake committed")

	return &entities.StakeResult{
		Session:    session,
		Game:       game,
		NewBalance: history.BalanceAfter,
	}, nil
}

func (s *wagerService) ResolveGame(ctx context.Context, gameID, staffID int64, winProbability, multiplier float64) (*entities.ResolutionResult, error) {
	game, err := s.wagerRepo.GetGameByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager game: %w", err)
	}
	if game == nil {
		return nil, apperrors.ErrGameNotFound
	}
	// Only the staff member who ran the game resolves it, even if their staff flag or
	// account was revoked after the stake was taken, so a committed stake always settles
	if game.StaffID != staffID {
		return nil, apperrors.ErrNotCasinoStaff.WithMessage("only the staff member running this game can resolve it")
	}
	if game.IsFinished() {
		return nil, apperrors.ErrAlreadyResolved
	}
	if !game.CanBeResolved() {
		return nil, apperrors.ErrGameNotConfirmed
	}

	maxMultiplier := config.Get().WagerMaxMultiplier
	if winProbability <= 0 || winProbability >= 1 || multiplier < 1 || multiplier > maxMultiplier {
		return nil, apperrors.ErrInvalidWagerParameters.WithMessage("win probability must be in (0, 1) and multiplier in [1, %g]", maxMultiplier)
	}

	session, err := s.wagerRepo.GetSessionByIDForUpdate(ctx, game.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}

	now := time.Now()
	outcome := s.drawer.Draw(winProbability)
	payout := game.Finish(outcome, winProbability, multiplier, now)
	if err := s.wagerRepo.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update wager game: %w", err)
	}

	result := &entities.ResolutionResult{Game: game, Payout: payout}

	if payout > 0 {
		// Audit record only; the staff balance is not touched
		audit := &entities.Transfer{
			SenderID:   game.StaffID,
			ReceiverID: game.PlayerID,
			Amount:     payout,
			Kind:       entities.TransferKindWagerPayout,
			RelatedID:  &game.ID,
			CreatedAt:  now,
		}
		if err := s.transferRepo.Create(ctx, audit); err != nil {
			return nil, fmt.Errorf("failed to record payout transfer: %w", err)
		}

		relatedID, relatedType := entities.NewRelatedRef(game.ID, entities.RelatedTypeWagerGame)
		history, err := s.ledger.AdjustBalance(ctx, entities.BalanceAdjustment{
			AccountID:       game.PlayerID,
			Delta:           payout,
			TransactionType: entities.TransactionTypeWagerPayout,
			Metadata: map[string]any{
				"session_id":  session.ID,
				"game_id":     game.ID,
				"transfer_id": audit.ID,
				"multiplier":  multiplier,
			},
			RelatedID:   relatedID,
			RelatedType: relatedType,
		})
		if err != nil {
			return nil, err
		}
		result.Transfer = audit
		result.NewBalance = history.BalanceAfter

		if err := s.eventPublisher.Publish(events.TransferCompletedEvent{
			TransferID: audit.ID,
			SenderID:   audit.SenderID,
			ReceiverID: audit.ReceiverID,
			Amount:     audit.Amount,
			Kind:       audit.Kind,
		}); err != nil {
			log.WithError(err).Error("Failed to publish transfer completed event")
		}
	} else {
		player, err := s.accountRepo.GetByID(ctx, game.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get player account: %w", err)
		}
		if player != nil {
			result.NewBalance = player.Balance
		}
	}

	oldStatus := session.Status
	session.MarkResolved(now)
	if err := s.wagerRepo.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update wager session: %w", err)
	}
	result.Session = session

	if err := s.eventPublisher.Publish(events.WagerResolvedEvent{
		GameID:     game.ID,
		SessionID:  session.ID,
		PlayerID:   game.PlayerID,
		StaffID:    game.StaffID,
		Stake:      game.Stake,
		Outcome:    outcome,
		Multiplier: multiplier,
		Payout:     payout,
	}); err != nil {
		log.WithError(err).Error("Failed to publish wager resolved event")
	}
	s.publishStateChange(session, oldStatus)

	log.WithFields(log.Fields{
		"gameID":   game.ID,
		"playerID": game.PlayerID,
		"outcome":  outcome,
		"payout":   payout,
	}).Info("Depalka game resolved")

	return result, nil
}

func (s *wagerService) CancelSession(ctx context.Context, sessionID, requesterID int64) (*entities.WagerSession, error) {
	return s.abort(ctx, sessionID, requesterID, func(session *entities.WagerSession) error {
		if session.StaffID != requesterID {
			return apperrors.ErrUnauthorizedStaff
		}
		return nil
	})
}

func (s *wagerService) DeclineSession(ctx context.Context, sessionID, playerID int64) (*entities.WagerSession, error) {
	return s.abort(ctx, sessionID, playerID, func(session *entities.WagerSession) error {
		if session.PlayerID != playerID {
			return apperrors.ErrUnauthorizedPlayer
		}
		return nil
	})
}

// abort cancels a proposed session; committed sessions are never refunded
func (s *wagerService) abort(ctx context.Context, sessionID, actorID int64, authorize func(*entities.WagerSession) error) (*entities.WagerSession, error) {
	session, err := s.wagerRepo.GetSessionByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}
	if err := authorize(session); err != nil {
		return nil, err
	}
	if !session.CanBeCancelled() {
		return nil, apperrors.ErrSessionNotPending
	}

	oldStatus := session.Status
	session.MarkCancelled(actorID, time.Now())
	if err := s.wagerRepo.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update wager session: %w", err)
	}

	s.publishStateChange(session, oldStatus)

	log.WithFields(log.Fields{
		"sessionID": session.ID,
		"actorID":   actorID,
	}).Info("Depalka session cancelled")

	return session, nil
}

func (s *wagerService) GetSession(ctx context.Context, sessionID, accountID int64) (*entities.WagerSession, error) {
	session, err := s.wagerRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager session: %w", err)
	}
	if session == nil || !session.IsParticipant(accountID) {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

func (s *wagerService) GetGame(ctx context.Context, gameID, accountID int64) (*entities.WagerGame, error) {
	game, err := s.wagerRepo.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager game: %w", err)
	}
	if game == nil || (game.PlayerID != accountID && game.StaffID != accountID) {
		return nil, apperrors.ErrGameNotFound
	}
	return game, nil
}

func (s *wagerService) ListSessions(ctx context.Context, accountID int64, activeOnly bool) ([]*entities.WagerSession, error) {
	sessions, err := s.wagerRepo.GetSessionsByAccount(ctx, accountID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list wager sessions: %w", err)
	}
	return sessions, nil
}

func (s *wagerService) publishStateChange(session *entities.WagerSession, oldStatus entities.WagerSessionStatus) {
	event := events.WagerSessionStateChangeEvent{
		SessionID: session.ID,
		StaffID:   session.StaffID,
		PlayerID:  session.PlayerID,
		OldState:  string(oldStatus),
		NewState:  string(session.Status),
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish wager session state change event")
	}
}
