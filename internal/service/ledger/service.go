package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebanking/ledger/internal/domain"
	"github.com/corebanking/ledger/internal/events"
)

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
	ListByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error)
}

// Service owns every balance mutation. Each operation commits the balance
// change and its transaction records as one unit or not at all.
type Service struct {
	accounts     accountRepo
	transactions transactionRepo
	db           *sql.DB
	publisher    events.Publisher
}

// NewService wires the ledger. publisher may be nil, in which case no
// transaction events are emitted.
func NewService(accounts accountRepo, transactions transactionRepo, db *sql.DB, publisher events.Publisher) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		db:           db,
		publisher:    publisher,
	}
}

// ListTransactions returns one page of an account's statement, newest first.
func (s *Service) ListTransactions(ctx context.Context, accountID uuid.UUID, pageIndex, pageSize int) (*domain.Page[domain.Transaction], error) {
	if accountID == uuid.Nil {
		return nil, fmt.Errorf("ListTransactions: %w", domain.ErrInvalidInput)
	}

	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("ListTransactions: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}

	index, size := domain.NormalizePage(pageIndex, pageSize)
	items, total, err := s.transactions.ListByAccountID(ctx, accountID, size, index*size)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}

	return &domain.Page[domain.Transaction]{
		Index:      index,
		Size:       size,
		TotalCount: total,
		Items:      items,
	}, nil
}

// storageFailure logs the failed commit with full context and hides the
// driver error behind an opaque sentinel.
func storageFailure(log *slog.Logger, operation string, amount decimal.Decimal, err error, accountIDs ...uuid.UUID) error {
	attrs := []any{"operation", operation, "amount", amount, "error", err}
	for i, id := range accountIDs {
		attrs = append(attrs, fmt.Sprintf("account_id_%d", i), id)
	}
	log.Error("ledger commit failed", attrs...)
	return domain.ErrStorage
}

func (s *Service) publishCompleted(log *slog.Logger, entries ...*domain.Transaction) {
	if s.publisher == nil {
		return
	}
	for _, t := range entries {
		ev := events.TransactionCompleted{
			TransactionID: t.ID,
			AccountID:     t.AccountID,
			Type:          string(t.Type),
			Amount:        t.Amount,
			OccurredAt:    t.OccurredAt,
			TransferID:    t.TransferID,
		}
		if err := s.publisher.Publish(events.TopicTransactionCompleted, ev); err != nil {
			// Events are best-effort; the ledger commit already succeeded.
			log.Warn("transaction event publish failed", "transaction_id", t.ID, "error", err)
		}
	}
}
