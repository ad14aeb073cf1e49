package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"townbank/application"
	"townbank/auth"
	"townbank/domain/apperrors"
	"townbank/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	router    *gin.Engine
	tokens    *auth.Service
	accounts  *mockAccountAPI
	credits   *mockCreditAPI
	transfers *mockTransferAPI
	wagers    *mockWagerAPI
	cycle     *mockCycleAPI
	roles     *mockRoleAPI
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &routerFixture{
		tokens:    auth.NewService("router-test-secret", time.Hour),
		accounts:  &mockAccountAPI{},
		credits:   &mockCreditAPI{},
		transfers: &mockTransferAPI{},
		wagers:    &mockWagerAPI{},
		cycle:     &mockCycleAPI{},
		roles:     &mockRoleAPI{},
	}
	f.router = NewRouter(Handlers{
		Accounts:  f.accounts,
		Credits:   f.credits,
		Transfers: f.transfers,
		Wagers:    f.wagers,
		Cycle:     f.cycle,
		Roles:     f.roles,
	}, Options{Tokens: f.tokens})

	t.Cleanup(func() {
		f.accounts.AssertExpectations(t)
		f.credits.AssertExpectations(t)
		f.transfers.AssertExpectations(t)
		f.wagers.AssertExpectations(t)
		f.cycle.AssertExpectations(t)
		f.roles.AssertExpectations(t)
	})
	return f
}

func (f *routerFixture) do(t *testing.T, method, path string, body any, accountID int64) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if accountID != 0 {
		token, err := f.tokens.GenerateToken(accountID, entities.RoleUser)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var payload struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error
}

func TestRouter_Healthz(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", nil, 0)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Register(t *testing.T) {
	f := newRouterFixture(t)
	account := &entities.Account{ID: 7, Login: "alice", Nickname: "alice", Balance: 1000, Role: entities.RoleUser, Active: true}
	f.accounts.On("Register", mock.Anything, "alice", "hunter22").
		Return(&application.LoginResult{Account: account, Token: "tok"}, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{"login": "alice", "password": "hunter22"}, 0)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, int64(7), resp.Account.ID)
	assert.Equal(t, int64(1000), resp.Account.Balance)
	assert.Equal(t, "user", resp.Account.Role)
}

func TestRouter_RegisterRejectsMissingFields(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{"login": "alice"}, 0)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Code)
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/me", nil, 0)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", decodeError(t, rec).Code)
}

func TestRouter_TransferReportsFee(t *testing.T) {
	f := newRouterFixture(t)
	f.transfers.On("Transfer", mock.Anything, int64(1), "bob", int64(1001)).Return(&entities.TransferResult{
		Transfer:        &entities.Transfer{ID: 3, SenderID: 1, ReceiverID: 2, Amount: 1001, Fee: 5, Kind: entities.TransferKindPeer},
		SenderBalance:   994,
		ReceiverBalance: 2001,
		Fee:             5,
	}, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/transfers", map[string]any{"receiverNickname": "bob", "amount": 1001}, 1)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Transfer   transferResponse `json:"transfer"`
		Fee        int64            `json:"fee"`
		NewBalance int64            `json:"newBalance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.Fee)
	assert.Equal(t, int64(994), resp.NewBalance)
	assert.Equal(t, "peer", resp.Transfer.Kind)
}

func TestRouter_ErrorKindsMapToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperrors.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{"not found", apperrors.ErrReceiverNotFound, http.StatusNotFound, "receiver_not_found"},
		{"insufficient resource", apperrors.ErrInsufficientBalance, http.StatusUnprocessableEntity, "insufficient_balance"},
		{"authorization", apperrors.ErrAccountInactive, http.StatusForbidden, "account_inactive"},
		{"wrapped", apperrors.ErrSelfTransferForbidden.WithMessage("nope"), http.StatusBadRequest, "self_transfer_forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			f.transfers.On("Transfer", mock.Anything, int64(1), "bob", int64(10)).Return(nil, tt.err)

			rec := f.do(t, http.MethodPost, "/api/v1/transfers", map[string]any{"receiverNickname": "bob", "amount": 10}, 1)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestRouter_InternalErrorsAreOpaque(t *testing.T) {
	f := newRouterFixture(t)
	f.accounts.On("GetAccount", mock.Anything, int64(1)).Return(nil, errors.New("pq: connection reset by peer"))

	rec := f.do(t, http.MethodGet, "/api/v1/me", nil, 1)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, apperrors.KindInternal, body.Kind)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestRouter_RejectsNonNumericID(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/credits/abc", nil, 1)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Code)
}

func TestRouter_CreditTotalsAreRounded(t *testing.T) {
	f := newRouterFixture(t)
	credit := &entities.Credit{
		ID:        4,
		AccountID: 1,
		Principal: 1000,
		DailyRate: 0.03,
		CreatedAt: time.Now().Add(-50 * time.Hour),
	}
	f.credits.On("GetCredit", mock.Anything, int64(1), int64(4)).Return(credit, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/credits/4", nil, 1)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp creditResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.DaysElapsed)
	assert.Equal(t, 1092.73, resp.TotalOwed)
	assert.Equal(t, 1092.73, resp.Remaining)
	assert.Equal(t, int64(1093), resp.PayableRemaining)
}

func TestRouter_AdvanceCyclePassesCaller(t *testing.T) {
	f := newRouterFixture(t)
	f.cycle.On("AdvanceCycle", mock.Anything, mock.MatchedBy(func(id *int64) bool { return id != nil && *id == 9 }), "endDay").
		Return(&entities.CycleResult{
			State:   entities.CycleState{IsDay: false},
			Payroll: &entities.PayrollSummary{AccountsPaid: 2, TotalPaid: 125},
		}, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/cycle/advance", map[string]string{"direction": "endDay"}, 9)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isDay":false`)
	assert.Contains(t, rec.Body.String(), `"totalPaid":125`)
}

func TestRouter_AdvanceCycleConflict(t *testing.T) {
	f := newRouterFixture(t)
	f.cycle.On("AdvanceCycle", mock.Anything, mock.Anything, "endNight").Return(nil, apperrors.ErrCycleAlreadyInState)

	rec := f.do(t, http.MethodPost, "/api/v1/cycle/advance", map[string]string{"direction": "endNight"}, 9)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "cycle_already_in_state", decodeError(t, rec).Code)
}

func TestRouter_AdvanceCyclePayrollIncomplete(t *testing.T) {
	f := newRouterFixture(t)
	f.cycle.On("AdvanceCycle", mock.Anything, mock.Anything, "endDay").
		Return(nil, apperrors.ErrPayrollIncomplete.WithMessage("1 of 3 salaries could not be paid; end the day again to retry them"))

	rec := f.do(t, http.MethodPost, "/api/v1/cycle/advance", map[string]string{"direction": "endDay"}, 9)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "payroll_incomplete", body.Code)
	assert.Contains(t, body.Message, "end the day again")
}

func TestRouter_NonPositiveAmountsReachTheService(t *testing.T) {
	tests := []struct {
		name   string
		body   map[string]any
		amount int64
	}{
		{"zero", map[string]any{"receiverNickname": "bob", "amount": 0}, 0},
		{"negative", map[string]any{"receiverNickname": "bob", "amount": -5}, -5},
		{"omitted", map[string]any{"receiverNickname": "bob"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			f.transfers.On("Transfer", mock.Anything, int64(1), "bob", tt.amount).Return(nil, apperrors.ErrInvalidAmount)

			rec := f.do(t, http.MethodPost, "/api/v1/transfers", tt.body, 1)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_amount", decodeError(t, rec).Code)
		})
	}
}

func TestRouter_ZeroLoanPrincipalIsInvalidAmount(t *testing.T) {
	f := newRouterFixture(t)
	f.credits.On("TakeLoan", mock.Anything, int64(1), int64(0)).Return(nil, apperrors.ErrInvalidAmount)

	rec := f.do(t, http.MethodPost, "/api/v1/credits", map[string]any{"principal": 0}, 1)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_amount", decodeError(t, rec).Code)
}
