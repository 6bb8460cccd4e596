package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebanking/ledger/internal/domain"
)

type ledgerService interface {
	Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Account, error)
	Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Account, error)
	Transfer(ctx context.Context, sourceID uuid.UUID, destNumber string, amount decimal.Decimal) (*domain.Account, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID, pageIndex, pageSize int) (*domain.Page[domain.Transaction], error)
}

type LedgerHandler struct {
	ledger ledgerService
}

func NewLedgerHandler(ledger ledgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

type movementRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	DestinationNumber string          `json:"destination_number"`
	Amount            decimal.Decimal `json:"amount"`
}

type transactionDTO struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"account_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
	TransferID *uuid.UUID      `json:"transfer_id,omitempty"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:         t.ID,
		AccountID:  t.AccountID,
		Type:       string(t.Type),
		Amount:     t.Amount,
		OccurredAt: t.OccurredAt,
		TransferID: t.TransferID,
	}
}

func accountIDFromPath(r *http.Request) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, ErrInvalidRequest
	}
	return id, nil
}

func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	a, err := h.ledger.Deposit(r.Context(), accountID, req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(a))
}

func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	a, err := h.ledger.Withdraw(r.Context(), accountID, req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(a))
}

func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if req.DestinationNumber == "" {
		RespondValidationError(w, []FieldError{{Field: "destination_number", Message: "required"}})
		return
	}

	a, err := h.ledger.Transfer(r.Context(), accountID, req.DestinationNumber, req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(a))
}

func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	index, size := pageParams(r)

	page, err := h.ledger.ListTransactions(r.Context(), accountID, index, size)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	items := make([]transactionDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toTransactionDTO(&page.Items[i]))
	}

	RespondSuccess(w, http.StatusOK, pageDTO[transactionDTO]{
		Index:      page.Index,
		PageSize:   page.Size,
		TotalCount: page.TotalCount,
		Items:      items,
	})
}
