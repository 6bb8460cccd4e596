package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/corebanking/ledger/internal/domain"
)

type customerService interface {
	CreateCustomer(ctx context.Context, name, address string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, pageIndex, pageSize int) (*domain.Page[domain.Customer], error)
}

type CustomerHandler struct {
	customers customerService
}

func NewCustomerHandler(customers customerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type createCustomerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (r createCustomerRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	return errs
}

type customerDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerDTO(c *domain.Customer) customerDTO {
	return customerDTO{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	c, err := h.customers.CreateCustomer(r.Context(), req.Name, req.Address)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toCustomerDTO(c))
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	index, size := pageParams(r)

	page, err := h.customers.ListCustomers(r.Context(), index, size)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	items := make([]customerDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toCustomerDTO(&page.Items[i]))
	}

	RespondSuccess(w, http.StatusOK, pageDTO[customerDTO]{
		Index:      page.Index,
		PageSize:   page.Size,
		TotalCount: page.TotalCount,
		Items:      items,
	})
}
