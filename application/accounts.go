package application

import (
	"context"

	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/domain/interfaces"
	"townbank/domain/services"
)

// LoginResult is returned after a successful login or registration
type LoginResult struct {
	Account *entities.Account
	Token   string
}

// AccountHandler orchestrates account operations
type AccountHandler struct {
	uowFactory UnitOfWorkFactory
	hasher     interfaces.SecretHasher
	tokens     TokenIssuer
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(uowFactory UnitOfWorkFactory, hasher interfaces.SecretHasher, tokens TokenIssuer) *AccountHandler {
	return &AccountHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		tokens:     tokens,
	}
}

func (h *AccountHandler) service(uow UnitOfWork) interfaces.AccountService {
	return services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), h.hasher)
}

// Register creates an account and logs it in
func (h *AccountHandler) Register(ctx context.Context, login, password string) (*LoginResult, error) {
	account, err := inTransaction(ctx, h.uowFactory, "register", func(uow UnitOfWork) (*entities.Account, error) {
		return h.service(uow).Register(ctx, login, password)
	})
	if err != nil {
		return nil, err
	}
	return h.issue(account)
}

// Login checks credentials and issues a token
func (h *AccountHandler) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	account, err := readOnly(ctx, h.uowFactory, "login", func(uow UnitOfWork) (*entities.Account, error) {
		return h.service(uow).Authenticate(ctx, login, password)
	})
	if err != nil {
		return nil, err
	}
	return h.issue(account)
}

// GetAccount returns the account
func (h *AccountHandler) GetAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	return readOnly(ctx, h.uowFactory, "get account", func(uow UnitOfWork) (*entities.Account, error) {
		return h.service(uow).GetAccount(ctx, accountID)
	})
}

// SetNickname replaces the default nickname
func (h *AccountHandler) SetNickname(ctx context.Context, accountID int64, nickname string) (*entities.Account, error) {
	return inTransaction(ctx, h.uowFactory, "set nickname", func(uow UnitOfWork) (*entities.Account, error) {
		return h.service(uow).SetNickname(ctx, accountID, nickname)
	})
}

// GetHistory returns the latest balance changes
func (h *AccountHandler) GetHistory(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	return readOnly(ctx, h.uowFactory, "get history", func(uow UnitOfWork) ([]*entities.BalanceHistory, error) {
		return h.service(uow).GetHistory(ctx, accountID, limit)
	})
}

func (h *AccountHandler) issue(account *entities.Account) (*LoginResult, error) {
	token, err := h.tokens.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to issue token")
	}
	return &LoginResult{Account: account, Token: token}, nil
}
