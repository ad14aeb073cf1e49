package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/domain/events"
	"townbank/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	secretRandomBytes = 32
	maxJobTitleLength = 64
)

type roleService struct {
	accountRepo       interfaces.AccountRepository
	creatorSecretRepo interfaces.CreatorSecretRepository
	ledger            interfaces.LedgerService
	eventPublisher    interfaces.EventPublisher
	hasher            interfaces.SecretHasher
}

// NewRoleService creates a new role service
func NewRoleService(
	accountRepo interfaces.AccountRepository,
	creatorSecretRepo interfaces.CreatorSecretRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	hasher interfaces.SecretHasher,
) interfaces.RoleService {
	return &roleService{
		accountRepo:       accountRepo,
		creatorSecretRepo: creatorSecretRepo,
		ledger:            NewLedgerService(accountRepo, balanceHistoryRepo, eventPublisher),
		eventPublisher:    eventPublisher,
		hasher:            hasher,
	}
}

func (s *roleService) RequireRole(ctx context.Context, actorID int64, minimum entities.Role) (*entities.Account, error) {
	actor, err := s.accountRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if actor == nil {
		return nil, apperrors.ErrAccountNotFound
	}
	if !actor.Active {
		return nil, apperrors.ErrAccountInactive
	}
	if !actor.HasRole(minimum) {
		return nil, apperrors.ErrInsufficientPermissions.WithMessage("requires the %s role", minimum)
	}
	return actor, nil
}

func (s *roleService) PromoteMayor(ctx context.Context, actorID, targetID int64) (*entities.Account, error) {
	return s.changeRole(ctx, actorID, targetID, entities.RoleUser, entities.RoleMayor, "promote_mayor")
}

func (s *roleService) DemoteMayor(ctx context.Context, actorID, targetID int64) (*entities.Account, error) {
	return s.changeRole(ctx, actorID, targetID, entities.RoleMayor, entities.RoleUser, "demote_mayor")
}

func (s *roleService) changeRole(ctx context.Context, actorID, targetID int64, from, to entities.Role, action string) (*entities.Account, error) {
	if _, err := s.RequireRole(ctx, actorID, entities.RoleCreator); err != nil {
		return nil, err
	}

	target, err := s.lockTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role != from {
		return nil, apperrors.ErrInvalidRoleChange.WithMessage("account has role %s, expected %s", target.Role, from)
	}

	if err := s.accountRepo.SetRole(ctx, targetID, to); err != nil {
		return nil, fmt.Errorf("failed to set role: %w", err)
	}
	target.Role = to

	s.audit(actorID, action, &targetID, map[string]any{"from": from, "to": to})
	return target, nil
}

func (s *roleService) AssignJob(ctx context.Context, actorID, targetID int64, job entities.Job) (*entities.Account, error) {
	job.Title = strings.TrimSpace(job.Title)
	if job.Title == "" || len(job.Title) > maxJobTitleLength || job.Salary <= 0 {
		return nil, apperrors.ErrInvalidJob
	}
	if _, err := s.RequireRole(ctx, actorID, entities.RoleMayor); err != nil {
		return nil, err
	}

	target, err := s.lockTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.SetJob(ctx, targetID, &job); err != nil {
		return nil, fmt.Errorf("failed to set job: %w", err)
	}
	target.Job = &job

	s.audit(actorID, "assign_job", &targetID, map[string]any{"title": job.Title, "salary": job.Salary})
	return target, nil
}

func (s *roleService) RemoveJob(ctx context.Context, actorID, targetID int64) (*entities.Account, error) {
	if _, err := s.RequireRole(ctx, actorID, entities.RoleMayor); err != nil {
		return nil, err
	}

	target, err := s.lockTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.SetJob(ctx, targetID, nil); err != nil {
		return nil, fmt.Errorf("failed to remove job: %w", err)
	}
	target.Job = nil

	s.audit(actorID, "remove_job", &targetID, nil)
	return target, nil
}

func (s *roleService) SetCasinoStaff(ctx context.Context, actorID, targetID int64, casinoStaff bool) (*entities.Account, error) {
	if _, err := s.RequireRole(ctx, actorID, entities.RoleMayor); err != nil {
		return nil, err
	}

	target, err := s.lockTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.SetCasinoStaff(ctx, targetID, casinoStaff); err != nil {
		return nil, fmt.Errorf("failed to set casino staff flag: %w", err)
	}
	target.CasinoStaff = casinoStaff

	s.audit(actorID, "set_casino_staff", &targetID, map[string]any{"casino_staff": casinoStaff})
	return target, nil
}

func (s *roleService) SetAccountActive(ctx context.Context, actorID, targetID int64, active bool) (*entities.Account, error) {
	if _, err := s.RequireRole(ctx, actorID, entities.RoleCreator); err != nil {
		return nil, err
	}
	if !active && actorID == targetID {
		return nil, apperrors.ErrInvalidRoleChange.WithMessage("cannot deactivate your own account")
	}

	target, err := s.lockTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.SetActive(ctx, targetID, active); err != nil {
		return nil, fmt.Errorf("failed to set active flag: %w", err)
	}
	target.Active = active

	s.audit(actorID, "set_account_active", &targetID, map[string]any{"active": active})
	return target, nil
}

func (s *roleService) ForceAdjustBalance(ctx context.Context, actorID, targetID int64, delta int64, reason string) (*entities.BalanceHistory, error) {
	reason = strings.TrimSpace(reason)
	if delta == 0 {
		return nil, apperrors.ErrInvalidAmount.WithMessage("adjustment cannot be zero")
	}
	if reason == "" {
		return nil, apperrors.ErrInvalidAmount.WithMessage("a reason is required for balance corrections")
	}
	if _, err := s.RequireRole(ctx, actorID, entities.RoleCreator); err != nil {
		return nil, err
	}

	history, err := s.ledger.AdjustBalance(ctx, entities.BalanceAdjustment{
		AccountID:       targetID,
		Delta:           delta,
		TransactionType: entities.TransactionTypeAdminAdjustment,
		Metadata: map[string]any{
			"actor_id": actorID,
			"reason":   reason,
		},
	})
	if err != nil {
		return nil, err
	}

	s.audit(actorID, "force_adjust_balance", &targetID, map[string]any{"delta": delta, "reason": reason})
	return history, nil
}

func (s *roleService) IssueCreatorSecret(ctx context.Context, actorID *int64) (*entities.IssuedCreatorSecret, error) {
	if actorID != nil {
		if _, err := s.RequireRole(ctx, *actorID, entities.RoleCreator); err != nil {
			return nil, err
		}
	}

	random := make([]byte, secretRandomBytes)
	if _, err := rand.Read(random); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	plain := base64.RawURLEncoding.EncodeToString(random)

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to hash secret: %w", err)
	}

	secret := &entities.CreatorSecret{
		ID:         uuid.New(),
		SecretHash: hash,
		CreatedBy:  actorID,
		CreatedAt:  time.Now(),
	}
	if err := s.creatorSecretRepo.Create(ctx, secret); err != nil {
		return nil, fmt.Errorf("failed to store creator secret: %w", err)
	}

	if actorID != nil {
		s.audit(*actorID, "issue_creator_secret", nil, map[string]any{"secret_id": secret.ID.String()})
	} else {
		log.WithField("secretID", secret.ID).Warn("Creator secret issued out of band")
	}

	return &entities.IssuedCreatorSecret{
		Secret: secret,
		Token:  secret.ID.String() + "." + plain,
	}, nil
}

func (s *roleService) RevokeCreatorSecret(ctx context.Context, actorID int64, secretID uuid.UUID) error {
	if _, err := s.RequireRole(ctx, actorID, entities.RoleCreator); err != nil {
		return err
	}

	secret, err := s.creatorSecretRepo.GetByIDForUpdate(ctx, secretID)
	if err != nil {
		return fmt.Errorf("failed to get creator secret: %w", err)
	}
	if secret == nil || !secret.IsUsable() {
		return apperrors.ErrSecretNotFound
	}

	if err := s.creatorSecretRepo.Revoke(ctx, secretID, time.Now()); err != nil {
		return fmt.Errorf("failed to revoke creator secret: %w", err)
	}

	s.audit(actorID, "revoke_creator_secret", nil, map[string]any{"secret_id": secretID.String()})
	return nil
}

func (s *roleService) ClaimCreator(ctx context.Context, accountID int64, token string) (*entities.Account, error) {
	secretID, plain, ok := parseSecretToken(token)
	if !ok {
		return nil, apperrors.ErrInvalidSecretKey
	}

	secret, err := s.creatorSecretRepo.GetByIDForUpdate(ctx, secretID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator secret: %w", err)
	}
	if secret == nil || !secret.IsUsable() || !s.hasher.Compare(secret.SecretHash, plain) {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"secretID":  secretID,
		}).Warn("Rejected creator secret")
		return nil, apperrors.ErrInvalidSecretKey
	}

	account, err := s.lockTarget(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Role == entities.RoleCreator {
		return nil, apperrors.ErrInvalidRoleChange.WithMessage("account is already a creator")
	}

	if err := s.accountRepo.SetRole(ctx, accountID, entities.RoleCreator); err != nil {
		return nil, fmt.Errorf("failed to set role: %w", err)
	}
	if err := s.creatorSecretRepo.MarkConsumed(ctx, secretID, accountID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to consume creator secret: %w", err)
	}
	previous := account.Role
	account.Role = entities.RoleCreator

	s.audit(accountID, "claim_creator", &accountID, map[string]any{"secret_id": secretID.String(), "from": previous})
	return account, nil
}

func (s *roleService) lockTarget(ctx context.Context, targetID int64) (*entities.Account, error) {
	target, err := s.accountRepo.GetByIDForUpdate(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if target == nil {
		return nil, apperrors.ErrAccountNotFound
	}
	return target, nil
}

func (s *roleService) audit(actorID int64, action string, targetID *int64, details map[string]any) {
	event := events.PrivilegedActionEvent{
		ActorID:  actorID,
		Action:   action,
		TargetID: targetID,
		Details:  details,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish privileged action event")
	}
	log.WithFields(log.Fields{
		"actorID":  actorID,
		"action":   action,
		"targetID": targetID,
	}).Info("Privileged action performed")
}

// parseSecretToken splits "<uuid>.<secret>"
func parseSecretToken(token string) (uuid.UUID, string, bool) {
	idPart, plain, found := strings.Cut(strings.TrimSpace(token), ".")
	if !found || plain == "" {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", false
	}
	return id, plain, true
}

