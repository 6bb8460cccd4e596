package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/corebanking/ledger/internal/domain"
	"github.com/corebanking/ledger/internal/logging"
)

type customerRepo interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context, limit, offset int) ([]domain.Customer, int64, error)
}

type CustomerService struct {
	customers customerRepo
}

func NewCustomerService(customers customerRepo) *CustomerService {
	return &CustomerService{customers: customers}
}

// CreateCustomer registers a customer. Name is required; address defaults to
// the empty string.
func (s *CustomerService) CreateCustomer(ctx context.Context, name, address string) (*domain.Customer, error) {
	log := logging.FromContext(ctx)

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("CreateCustomer: name: %w", domain.ErrInvalidInput)
	}

	c := &domain.Customer{
		ID:        domain.NewID(),
		Name:      name,
		Address:   address,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("CreateCustomer: %w", err)
	}

	log.Info("customer created", "customer_id", c.ID)
	return c, nil
}

// ListCustomers returns one page of customers ordered by name.
func (s *CustomerService) ListCustomers(ctx context.Context, pageIndex, pageSize int) (*domain.Page[domain.Customer], error) {
	index, size := domain.NormalizePage(pageIndex, pageSize)

	items, total, err := s.customers.List(ctx, size, index*size)
	if err != nil {
		return nil, fmt.Errorf("ListCustomers: %w", err)
	}

	return &domain.Page[domain.Customer]{
		Index:      index,
		Size:       size,
		TotalCount: total,
		Items:      items,
	}, nil
}
