package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebanking/ledger/internal/domain"
	"github.com/corebanking/ledger/internal/logging"
)

// Transfer atomically moves amount from the source account to the account
// addressed by destNumber. It appends two transactions, a withdraw leg on the
// source and a deposit leg on the destination, sharing one timestamp and one
// transfer correlation ID. Transfers to the source account itself are
// rejected.
func (s *Service) Transfer(ctx context.Context, sourceID uuid.UUID, destNumber string, amount decimal.Decimal) (*domain.Account, error) {
	if err := validateTransferInput(sourceID, destNumber, amount); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	source, dest, err := s.resolveTransferAccounts(ctx, sourceID, destNumber)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	if source.ID == dest.ID {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrSelfTransfer)
	}
	if source.Balance.LessThan(amount) {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrInsufficientBalance)
	}

	updated, err := s.executeTransfer(ctx, source.ID, dest.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}
	return updated, nil
}

func (s *Service) resolveTransferAccounts(ctx context.Context, sourceID uuid.UUID, destNumber string) (*domain.Account, *domain.Account, error) {
	source, err := s.accounts.GetByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("resolveTransferAccounts: %w", domain.ErrAccountNotFound)
		}
		return nil, nil, fmt.Errorf("resolveTransferAccounts: %w", err)
	}

	dest, err := s.accounts.GetByNumber(ctx, destNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("resolveTransferAccounts: %w", domain.ErrDestinationNotFound)
		}
		return nil, nil, fmt.Errorf("resolveTransferAccounts: %w", err)
	}

	return source, dest, nil
}

func (s *Service) executeTransfer(ctx context.Context, sourceID, destID uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageFailure(log, "transfer", amount, err, sourceID, destID)
	}
	defer dbtx.Rollback()

	locked, err := lockAccountsInOrder(ctx, dbtx, s.accounts, sourceID, destID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageFailure(log, "transfer", amount, err, sourceID, destID)
	}

	source, dest := locked[sourceID], locked[destID]

	// Re-checked under lock; the pre-check ran against an unlocked read.
	if source.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientBalance
	}

	// One timestamp captured up front so both legs record identical times.
	now := time.Now().UTC()
	transferID := domain.NewID()

	debit := &domain.Transaction{
		ID:         domain.NewID(),
		AccountID:  source.ID,
		Type:       domain.TransactionWithdraw,
		Amount:     amount,
		OccurredAt: now,
		TransferID: &transferID,
	}
	credit := &domain.Transaction{
		ID:         domain.NewID(),
		AccountID:  dest.ID,
		Type:       domain.TransactionDeposit,
		Amount:     amount,
		OccurredAt: now,
		TransferID: &transferID,
	}

	if err := s.transactions.Create(ctx, dbtx, debit); err != nil {
		return nil, storageFailure(log, "transfer", amount, err, sourceID, destID)
	}
	if err := s.transactions.Create(ctx, dbtx, credit); err != nil {
		return nil, storageFailure(log, "transfer", amount, err, sourceID, destID)
	}

	if err := s.accounts.UpdateBalance(ctx, dbtx, source.ID, source.Balance.Sub(amount), source.Version+1); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return nil, domain.ErrVersionConflict
		}
		return nil, storageFailure(log, "transfer", amount, err, sourceID, destID)
	}
	if err := s.accounts.UpdateBalance(ctx, dbtx, dest.ID, dest.Balance.Add(amount), dest.Version+1); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return nil, domain.ErrVersionConflict
		}
		return nil, storageFailure(log, "transfer", amount, err, sourceID, destID)
	}

	if err := dbtx.Commit(); err != nil {
		return nil, storageFailure(log, "transfer", amount, err, sourceID, destID)
	}

	source.Balance = source.Balance.Sub(amount)
	source.Version++

	log.Info("transfer committed",
		"transfer_id", transferID,
		"source_account", source.ID,
		"destination_account", dest.ID,
		"amount", amount,
	)

	s.publishCompleted(log, debit, credit)
	return source, nil
}

// lockAccountsInOrder takes FOR UPDATE locks in ascending ID order so two
// transfers touching the same pair of accounts cannot deadlock.
func lockAccountsInOrder(ctx context.Context, tx *sql.Tx, accounts accountRepo, ids ...uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	result := make(map[uuid.UUID]*domain.Account, len(ids))
	for _, id := range sorted {
		acct, err := accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		result[id] = acct
	}
	return result, nil
}
