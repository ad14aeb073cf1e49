package application

import (
	"context"

	"townbank/domain/entities"
	"townbank/domain/interfaces"
	"townbank/domain/services"

	"github.com/google/uuid"
)

// RoleHandler orchestrates privileged operations
type RoleHandler struct {
	uowFactory UnitOfWorkFactory
	hasher     interfaces.SecretHasher
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(uowFactory UnitOfWorkFactory, hasher interfaces.SecretHasher) *RoleHandler {
	return &RoleHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
	}
}

func (h *RoleHandler) service(uow UnitOfWork) interfaces.RoleService {
	return services.NewRoleService(uow.AccountRepository(), uow.CreatorSecretRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), h.hasher)
}

// accountMutation runs one of the role service's account-returning operations in a transaction
func (h *RoleHandler) accountMutation(ctx context.Context, operation string, fn func(svc interfaces.RoleService) (*entities.Account, error)) (*entities.Account, error) {
	return inTransaction(ctx, h.uowFactory, operation, func(uow UnitOfWork) (*entities.Account, error) {
		return fn(h.service(uow))
	})
}

// PromoteMayor grants the mayor role
func (h *RoleHandler) PromoteMayor(ctx context.Context, actorID, targetID int64) (*entities.Account, error) {
	return h.accountMutation(ctx, "promote mayor", func(svc interfaces.RoleService) (*entities.Account, error) {
		return svc.PromoteMayor(ctx, actorID, targetID)
	})
}

// DemoteMayor returns a mayor to the user role
func (h *RoleHandler) DemoteMayor(ctx context.Context, actorID, targetID int64) (*entities.Account, error) {
	return h.accountMutation(ctx, "demote mayor", func(svc interfaces.RoleService) (*entities.Account, error) {
		return svc.DemoteMayor(ctx, actorID, targetID)
	})
}

// AssignJob sets a salaried job
func (h *RoleHandler) AssignJob(ctx context.Context, actorID, targetID int64, job entities.Job) (*entities.Account, error) {
	return h.accountMutation(ctx, "assign job", func(svc interfaces.RoleService) (*entities.Account, error) {
		return svc.AssignJob(ctx, actorID, targetID, job)
	})
}

// RemoveJob clears the job
func (h *RoleHandler) RemoveJob(ctx context.Context, actorID, targetID int64) (*entities.Account, error) {
	return h.accountMutation(ctx, "remove job", func(svc interfaces.RoleService) (*entities.Account, error) {
		return svc.RemoveJob(ctx, actorID, targetID)
	})
}

// SetCasinoStaff grants or removes the casino staff flag
func (h *RoleHandler) SetCasinoStaff(ctx context.Context, actorID, targetID int64, casinoStaff bool) (*entities.Account, error) {
	return h.accountMutation(ctx, "set casino staff", func(svc interfaces.RoleService) (*entities.Account, error) {
		return svc.SetCasinoStaff(ctx, actorID, targetID, casinoStaff)
	})
}

// SetAccountActive activates or deactivates an account
func (h *RoleHandler) SetAccountActive(ctx context.Context, actorID, targetID int64, active bool) (*entities.Account, error) {
	return h.accountMutation(ctx, "set account active", func(svc interfaces.RoleService) (*entities.Account, error) {
		return svc.SetAccountActive(ctx, actorID, targetID, active)
	})
}

// ClaimCreator exchanges a creator secret for the creator role
func (h *RoleHandler) ClaimCreator(ctx context.Context, accountID int64, token string) (*entities.Account, error) {
	return h.accountMutation(ctx, "claim creator", func(svc interfaces.RoleService) (*entities.Account, error) {
		return svc.ClaimCreator(ctx, accountID, token)
	})
}

// ForceAdjustBalance applies a correction through the ledger
func (h *RoleHandler) ForceAdjustBalance(ctx context.Context, actorID, targetID, delta int64, reason string) (*entities.BalanceHistory, error) {
	return inTransaction(ctx, h.uowFactory, "force adjust balance", func(uow UnitOfWork) (*entities.BalanceHistory, error) {
		return h.service(uow).ForceAdjustBalance(ctx, actorID, targetID, delta, reason)
	})
}

// IssueCreatorSecret creates an enrollment secret; a nil actor is the out-of-band bootstrap
func (h *RoleHandler) IssueCreatorSecret(ctx context.Context, actorID *int64) (*entities.IssuedCreatorSecret, error) {
	return inTransaction(ctx, h.uowFactory, "issue creator secret", func(uow UnitOfWork) (*entities.IssuedCreatorSecret, error) {
		return h.service(uow).IssueCreatorSecret(ctx, actorID)
	})
}

// RevokeCreatorSecret disables an unused secret
func (h *RoleHandler) RevokeCreatorSecret(ctx context.Context, actorID int64, secretID uuid.UUID) error {
	_, err := inTransaction(ctx, h.uowFactory, "revoke creator secret", func(uow UnitOfWork) (struct{}, error) {
		return struct{}{}, h.service(uow).RevokeCreatorSecret(ctx, actorID, secretID)
	})
	return err
}

// RequireRole checks the actor holds at least the given role
func (h *RoleHandler) RequireRole(ctx context.Context, actorID int64, minimum entities.Role) (*entities.Account, error) {
	return readOnly(ctx, h.uowFactory, "require role", func(uow UnitOfWork) (*entities.Account, error) {
		return h.service(uow).RequireRole(ctx, actorID, minimum)
	})
}
