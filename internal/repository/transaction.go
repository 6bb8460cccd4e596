package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/corebanking/ledger/internal/domain"
)

const transactionColumns = `id, account_id, type, amount, occurred_at, transfer_id`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends one transaction inside tx. There is no update or delete
// counterpart; the table is append-only.
func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, type, amount, occurred_at, transfer_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.AccountID, t.Type, t.Amount, t.OccurredAt, t.TransferID,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ListByAccountID returns one page of an account's transactions, newest
// first. ID order is used as the tiebreaker: v7 IDs sort chronologically, so
// the two legs of a transfer (which share a timestamp) still list stably.
func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByAccountID: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE account_id = $1 ORDER BY occurred_at DESC, id DESC LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByAccountID: %w", err)
	}
	defer rows.Close()

	var entries []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListByAccountID: scan: %w", err)
		}
		entries = append(entries, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListByAccountID: rows: %w", err)
	}
	return entries, total, nil
}

// GetByTransferID returns both legs of a transfer in chronological ID order.
func (r *TransactionRepository) GetByTransferID(ctx context.Context, transferID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE transfer_id = $1 ORDER BY id`,
		transferID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByTransferID: %w", err)
	}
	defer rows.Close()

	var entries []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByTransferID: scan: %w", err)
		}
		entries = append(entries, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByTransferID: rows: %w", err)
	}
	return entries, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.OccurredAt, &t.TransferID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
