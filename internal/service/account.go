package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebanking/ledger/internal/domain"
	"github.com/corebanking/ledger/internal/logging"
)

// Random account numbers can still collide; the unique constraint is the
// arbiter and creation retries a few times before giving up.
const maxNumberAttempts = 3

type accountRepo interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	List(ctx context.Context, customerID *uuid.UUID, limit, offset int) ([]domain.Account, int64, error)
}

type customerChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type AccountService struct {
	accounts  accountRepo
	customers customerChecker
}

func NewAccountService(accounts accountRepo, customers customerChecker) *AccountService {
	return &AccountService{accounts: accounts, customers: customers}
}

// CreateAccount opens a zero-balance account for the customer with a freshly
// generated account number. Any balance supplied by the caller is ignored.
func (s *AccountService) CreateAccount(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if customerID == uuid.Nil {
		return nil, fmt.Errorf("CreateAccount: customer id: %w", domain.ErrInvalidInput)
	}

	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("CreateAccount: %w", domain.ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	for attempt := 1; ; attempt++ {
		number, err := generateAccountNumber()
		if err != nil {
			return nil, fmt.Errorf("CreateAccount: %w", err)
		}

		a := &domain.Account{
			ID:         domain.NewID(),
			Number:     number,
			Balance:    decimal.Zero,
			Version:    1,
			CustomerID: customerID,
			CreatedAt:  time.Now().UTC(),
		}

		err = s.accounts.Create(ctx, a)
		if err == nil {
			log.Info("account created", "account_id", a.ID, "customer_id", customerID)
			return a, nil
		}
		if errors.Is(err, domain.ErrDuplicateNumber) && attempt < maxNumberAttempts {
			log.Warn("account number collision, retrying", "attempt", attempt)
			continue
		}
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}
}

// ListAccounts returns one page of accounts ordered by account number,
// optionally filtered to a single customer.
func (s *AccountService) ListAccounts(ctx context.Context, pageIndex, pageSize int, customerID *uuid.UUID) (*domain.Page[domain.Account], error) {
	index, size := domain.NormalizePage(pageIndex, pageSize)

	items, total, err := s.accounts.List(ctx, customerID, size, index*size)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}

	return &domain.Page[domain.Account]{
		Index:      index,
		Size:       size,
		TotalCount: total,
		Items:      items,
	}, nil
}

func generateAccountNumber() (string, error) {
	digits := make([]byte, 10)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generateAccountNumber: %w", err)
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return string(digits), nil
}
