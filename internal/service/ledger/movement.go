package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebanking/ledger/internal/domain"
	"github.com/corebanking/ledger/internal/logging"
)

// Deposit credits amount to the account and appends one deposit transaction.
func (s *Service) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	acct, err := s.executeMovement(ctx, accountID, amount, domain.TransactionDeposit)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}
	return acct, nil
}

// Withdraw debits amount from the account and appends one withdraw
// transaction. The balance must cover the amount.
func (s *Service) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	acct, err := s.executeMovement(ctx, accountID, amount, domain.TransactionWithdraw)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}
	return acct, nil
}

func (s *Service) executeMovement(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, txType domain.TransactionType) (*domain.Account, error) {
	if err := validateMovement(accountID, amount); err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageFailure(log, string(txType), amount, err, accountID)
	}
	defer dbtx.Rollback()

	acct, err := s.accounts.GetForUpdate(ctx, dbtx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageFailure(log, string(txType), amount, err, accountID)
	}

	var newBalance decimal.Decimal
	switch txType {
	case domain.TransactionDeposit:
		newBalance = acct.Balance.Add(amount)
	case domain.TransactionWithdraw:
		if acct.Balance.LessThan(amount) {
			return nil, domain.ErrInsufficientBalance
		}
		newBalance = acct.Balance.Sub(amount)
	default:
		return nil, fmt.Errorf("executeMovement: unknown type %q: %w", txType, domain.ErrInvalidInput)
	}

	entry := &domain.Transaction{
		ID:         domain.NewID(),
		AccountID:  acct.ID,
		Type:       txType,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.transactions.Create(ctx, dbtx, entry); err != nil {
		return nil, storageFailure(log, string(txType), amount, err, accountID)
	}

	if err := s.accounts.UpdateBalance(ctx, dbtx, acct.ID, newBalance, acct.Version+1); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return nil, domain.ErrVersionConflict
		}
		return nil, storageFailure(log, string(txType), amount, err, accountID)
	}

	if err := dbtx.Commit(); err != nil {
		return nil, storageFailure(log, string(txType), amount, err, accountID)
	}

	acct.Balance = newBalance
	acct.Version++

	log.Info("ledger movement committed",
		"operation", string(txType),
		"account_id", acct.ID,
		"amount", amount,
		"balance", acct.Balance,
	)

	s.publishCompleted(log, entry)
	return acct, nil
}
