package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"townbank/config"
	"townbank/domain/apperrors"
	"townbank/domain/entities"
	"townbank/domain/interfaces"
	"townbank/domain/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	defaultNicknamePrefix = "player-"
	minPasswordLength     = 8
	maxPasswordLength     = 72 // bcrypt ignores anything longer
	defaultHistoryLimit   = 50
	maxHistoryLimit       = 200
)

var (
	loginPattern    = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)
	nicknamePattern = regexp.MustCompile(`^[\p{L}\p{N}_\-]{3,24}$`)
)

type accountService struct {
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
	hasher             interfaces.SecretHasher
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo interfaces.AccountRepository, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher, hasher interfaces.SecretHasher) interfaces.AccountService {
	return &accountService{
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
		hasher:             hasher,
	}
}

func (s *accountService) Register(ctx context.Context, login, password string) (*entities.Account, error) {
	login = strings.TrimSpace(login)
	if !loginPattern.MatchString(login) {
		return nil, apperrors.ErrInvalidRegistration.WithMessage("login must be 3-32 letters, digits or underscores")
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return nil, apperrors.ErrInvalidRegistration.WithMessage("password must be %d-%d bytes long", minPasswordLength, maxPasswordLength)
	}

	existing, err := s.accountRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to check login: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrLoginTaken
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	startingBalance := config.Get().StartingBalance
	account := &entities.Account{
		Login:        login,
		PasswordHash: passwordHash,
		Nickname:     defaultNickname(),
		Balance:      startingBalance,
		Role:         entities.RoleUser,
		Active:       true,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrLoginTaken) || errors.Is(err, apperrors.ErrNicknameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	history := &entities.BalanceHistory{
		AccountID:       account.ID,
		BalanceBefore:   0,
		BalanceAfter:    startingBalance,
		ChangeAmount:    startingBalance,
		TransactionType: entities.TransactionTypeInitial,
		TransactionMetadata: map[string]any{
			"login":    account.Login,
			"nickname": account.Nickname,
		},
		CreatedAt: time.Now(),
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"accountID": account.ID,
		"login":     account.Login,
		"balance":   account.Balance,
	}).Info("Account registered")

	return account, nil
}

func (s *accountService) Authenticate(ctx context.Context, login, password string) (*entities.Account, error) {
	account, err := s.accountRepo.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil || !s.hasher.Compare(account.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !account.Active {
		return nil, apperrors.ErrAccountInactive
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}

func (s *accountService) SetNickname(ctx context.Context, accountID int64, nickname string) (*entities.Account, error) {
	nickname = strings.TrimSpace(nickname)
	if !nicknamePattern.MatchString(nickname) || strings.HasPrefix(nickname, defaultNicknamePrefix) {
		return nil, apperrors.ErrInvalidNickname.WithMessage("nickname must be 3-24 letters, digits, '_' or '-' and not start with %q", defaultNicknamePrefix)
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, apperrors.ErrAccountNotFound
	}
	if !account.CanChangeNickname() {
		return nil, apperrors.ErrNicknameAlreadySet
	}

	if err := s.accountRepo.SetNickname(ctx, accountID, nickname); err != nil {
		if errors.Is(err, apperrors.ErrNicknameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to set nickname: %w", err)
	}

	account.Nickname = nickname
	account.NicknameSet = true
	return account, nil
}

func (s *accountService) GetHistory(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	history, err := s.balanceHistoryRepo.GetByAccount(ctx, accountID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	return history, nil
}

func defaultNickname() string {
	return defaultNicknamePrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
