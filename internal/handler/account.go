package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebanking/ledger/internal/domain"
)

type accountService interface {
	CreateAccount(ctx context.Context, customerID uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context, pageIndex, pageSize int, customerID *uuid.UUID) (*domain.Page[domain.Account], error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	CustomerID string `json:"customer_id"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.CustomerID == "" {
		errs = append(errs, FieldError{Field: "customer_id", Message: "required"})
	} else if _, err := uuid.Parse(r.CustomerID); err != nil {
		errs = append(errs, FieldError{Field: "customer_id", Message: "must be a valid UUID"})
	}
	return errs
}

type accountDTO struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	Balance    decimal.Decimal `json:"balance"`
	CustomerID uuid.UUID       `json:"customer_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:         a.ID,
		Number:     a.Number,
		Balance:    a.Balance,
		CustomerID: a.CustomerID,
		CreatedAt:  a.CreatedAt,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID)
	a, err := h.accounts.CreateAccount(r.Context(), customerID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(a))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	index, size := pageParams(r)

	var customerID *uuid.UUID
	if raw := r.URL.Query().Get("customerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "customerId", Message: "must be a valid UUID"}})
			return
		}
		customerID = &id
	}

	page, err := h.accounts.ListAccounts(r.Context(), index, size, customerID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	items := make([]accountDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toAccountDTO(&page.Items[i]))
	}

	RespondSuccess(w, http.StatusOK, pageDTO[accountDTO]{
		Index:      page.Index,
		PageSize:   page.Size,
		TotalCount: page.TotalCount,
		Items:      items,
	})
}

// pageParams reads the zero-based page index and page size query parameters.
// Out-of-range values are left to the core to normalize.
func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	index, _ := strconv.Atoi(q.Get("pageIndex"))
	size, _ := strconv.Atoi(q.Get("pageSize"))
	return index, size
}
