// Package apperrors defines the error kinds every economy operation reports.
// Services return the sentinels below (optionally with a more specific message);
// transports map the Kind to a response status.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers
type Kind string

const (
	KindValidation           Kind = "validation"
	KindNotFound             Kind = "not_found"
	KindConflict             Kind = "conflict"
	KindInsufficientResource Kind = "insufficient_resource"
	KindAuthorization        Kind = "authorization"
	KindInternal             Kind = "internal"
)

// Error is a stable, user-visible failure
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error // Underlying cause, never shown to users
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code so a sentinel with a custom message still satisfies errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error carrying a more specific message
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// New creates a new error of the given kind
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Internal wraps an unexpected failure (persistence, transaction) as an internal error
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: message, Err: err}
}

// KindOf returns the kind of err, treating unknown errors as internal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Wrap keeps typed errors as they are and wraps anything else as internal
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Internal(err, message)
}

// Ledger errors
var (
	ErrAccountNotFound   = New(KindNotFound, "account_not_found", "account not found")
	ErrInsufficientFunds = New(KindInsufficientResource, "insufficient_funds", "adjustment would make the balance negative")
	ErrAccountInactive   = New(KindAuthorization, "account_inactive", "account is deactivated")
)

// Credit errors
var (
	ErrInvalidAmount       = New(KindValidation, "invalid_amount", "amount is out of the allowed range")
	ErrCreditNotFound      = New(KindNotFound, "credit_not_found", "credit not found")
	ErrCreditAlreadyPaid   = New(KindConflict, "credit_already_paid", "credit is already paid")
	ErrInsufficientBalance = New(KindInsufficientResource, "insufficient_balance", "insufficient balance")
	ErrAmountExceedsDebt   = New(KindValidation, "amount_exceeds_debt", "amount is greater than the remaining debt")
	ErrNotCreditOwner      = New(KindAuthorization, "not_credit_owner", "only the borrower can repay this credit")
)

// Transfer errors
var (
	ErrReceiverNotFound      = New(KindNotFound, "receiver_not_found", "receiver not found")
	ErrSelfTransferForbidden = New(KindValidation, "self_transfer_forbidden", "cannot transfer to yourself")
)

// Wager errors
var (
	ErrSessionNotFound        = New(KindNotFound, "session_not_found", "wager session not found")
	ErrGameNotFound           = New(KindNotFound, "game_not_found", "wager game not found")
	ErrSessionNotPending      = New(KindConflict, "session_not_pending", "wager session is not awaiting a stake")
	ErrUnauthorizedPlayer     = New(KindAuthorization, "unauthorized_player", "only the targeted player can do this")
	ErrUnauthorizedStaff      = New(KindAuthorization, "unauthorized_staff", "only the initiating staff member can do this")
	ErrGameNotConfirmed       = New(KindConflict, "game_not_confirmed", "wager game is not confirmed")
	ErrAlreadyResolved        = New(KindConflict, "already_resolved", "wager game is already resolved")
	ErrNotCasinoStaff         = New(KindAuthorization, "not_casino_staff", "account is not casino staff")
	ErrInvalidWagerParameters = New(KindValidation, "invalid_wager_parameters", "win probability or multiplier is out of range")
	ErrInvalidWagerTarget     = New(KindValidation, "invalid_wager_target", "staff cannot target themselves")
)

// Cycle errors
var (
	ErrInvalidDirection    = New(KindValidation, "invalid_direction", "direction must be endDay or endNight")
	ErrCycleAlreadyInState = New(KindConflict, "cycle_already_in_state", "cycle is already in the requested phase")
	ErrPayrollIncomplete   = New(KindConflict, "payroll_incomplete", "some salaries could not be paid and the day was not ended")
)

// Role and account errors
var (
	ErrInsufficientPermissions = New(KindAuthorization, "insufficient_permissions", "role does not allow this operation")
	ErrInvalidSecretKey        = New(KindAuthorization, "invalid_secret_key", "secret key is invalid")
	ErrInvalidRoleChange       = New(KindConflict, "invalid_role_change", "role change is not allowed")
	ErrInvalidJob              = New(KindValidation, "invalid_job", "job title and a positive salary are required")
	ErrSecretNotFound          = New(KindNotFound, "secret_not_found", "creator secret not found")
	ErrInvalidCredentials      = New(KindAuthorization, "invalid_credentials", "invalid login or password")
	ErrInvalidRegistration     = New(KindValidation, "invalid_registration", "login and password do not meet requirements")
	ErrInvalidNickname         = New(KindValidation, "invalid_nickname", "nickname does not meet requirements")
	ErrLoginTaken              = New(KindConflict, "login_taken", "login is already registered")
	ErrNicknameTaken           = New(KindConflict, "nickname_taken", "nickname is already taken")
	ErrNicknameAlreadySet      = New(KindConflict, "nickname_already_set", "nickname can only be changed once")
)
