package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebanking/ledger/internal/domain"
)

type mockLedgerService struct {
	account *domain.Account
	page    *domain.Page[domain.Transaction]
	err     error

	gotAccountID  uuid.UUID
	gotDestNumber string
	gotAmount     decimal.Decimal
}

func (m *mockLedgerService) Deposit(_ context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	m.gotAccountID, m.gotAmount = accountID, amount
	return m.account, m.err
}

func (m *mockLedgerService) Withdraw(_ context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	m.gotAccountID, m.gotAmount = accountID, amount
	return m.account, m.err
}

func (m *mockLedgerService) Transfer(_ context.Context, sourceID uuid.UUID, destNumber string, amount decimal.Decimal) (*domain.Account, error) {
	m.gotAccountID, m.gotDestNumber, m.gotAmount = sourceID, destNumber, amount
	return m.account, m.err
}

func (m *mockLedgerService) ListTransactions(_ context.Context, accountID uuid.UUID, pageIndex, pageSize int) (*domain.Page[domain.Transaction], error) {
	m.gotAccountID = accountID
	return m.page, m.err
}

func newLedgerMux(svc *mockLedgerService) *http.ServeMux {
	h := NewLedgerHandler(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/accounts/{id}/deposit", h.Deposit)
	mux.HandleFunc("PUT /api/v1/accounts/{id}/withdraw", h.Withdraw)
	mux.HandleFunc("PUT /api/v1/accounts/{id}/transfer", h.Transfer)
	mux.HandleFunc("GET /api/v1/accounts/{id}/transactions", h.ListTransactions)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestDepositHandler_HappyPath(t *testing.T) {
	acct := &domain.Account{
		ID:      uuid.New(),
		Number:  "1000000001",
		Balance: decimal.NewFromInt(150),
	}
	svc := &mockLedgerService{account: acct}
	mux := newLedgerMux(svc)

	rec, resp := doRequest(t, mux, http.MethodPut,
		fmt.Sprintf("/api/v1/accounts/%s/deposit", acct.ID), `{"amount": "150"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, acct.ID, svc.gotAccountID)
	assert.True(t, svc.gotAmount.Equal(decimal.NewFromInt(150)))
}

func TestDepositHandler_MalformedAccountID(t *testing.T) {
	svc := &mockLedgerService{}
	mux := newLedgerMux(svc)

	rec, resp := doRequest(t, mux, http.MethodPut, "/api/v1/accounts/not-a-uuid/deposit", `{"amount": "100"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestLedgerHandler_ErrorMapping(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
		{"insufficient balance", domain.ErrInsufficientBalance, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"},
		{"storage failure", domain.ErrStorage, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockLedgerService{err: fmt.Errorf("Withdraw: %w", tc.err)}
			mux := newLedgerMux(svc)

			rec, resp := doRequest(t, mux, http.MethodPut,
				fmt.Sprintf("/api/v1/accounts/%s/withdraw", accountID), `{"amount": "100"}`)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestTransferHandler_ErrorMapping(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"destination not found", domain.ErrDestinationNotFound, http.StatusUnprocessableEntity, "DESTINATION_NOT_FOUND"},
		{"self transfer", domain.ErrSelfTransfer, http.StatusUnprocessableEntity, "SELF_TRANSFER_NOT_ALLOWED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockLedgerService{err: fmt.Errorf("Transfer: %w", tc.err)}
			mux := newLedgerMux(svc)

			rec, resp := doRequest(t, mux, http.MethodPut,
				fmt.Sprintf("/api/v1/accounts/%s/transfer", accountID),
				`{"destination_number": "9999999999", "amount": "100"}`)

			assert.Equal(t, tc.wantStatus, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestTransferHandler_MissingDestination(t *testing.T) {
	svc := &mockLedgerService{}
	mux := newLedgerMux(svc)

	rec, resp := doRequest(t, mux, http.MethodPut,
		fmt.Sprintf("/api/v1/accounts/%s/transfer", uuid.New()), `{"amount": "100"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
}

func TestListTransactionsHandler(t *testing.T) {
	accountID := uuid.New()
	svc := &mockLedgerService{
		page: &domain.Page[domain.Transaction]{
			Index:      0,
			Size:       10,
			TotalCount: 1,
			Items: []domain.Transaction{{
				ID:        domain.NewID(),
				AccountID: accountID,
				Type:      domain.TransactionDeposit,
				Amount:    decimal.NewFromInt(25),
			}},
		},
	}
	mux := newLedgerMux(svc)

	rec, resp := doRequest(t, mux, http.MethodGet,
		fmt.Sprintf("/api/v1/accounts/%s/transactions?pageIndex=0&pageSize=10", accountID), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, accountID, svc.gotAccountID)
}
