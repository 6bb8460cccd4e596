package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit  TransactionType = "deposit"
	TransactionWithdraw TransactionType = "withdraw"
)

// Transaction is an append-only ledger record. Rows are never updated or
// deleted once written. The two legs of a transfer share one TransferID and
// one OccurredAt; standalone deposits and withdrawals leave TransferID nil.
type Transaction struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Type       TransactionType
	Amount     decimal.Decimal
	OccurredAt time.Time
	TransferID *uuid.UUID
}
