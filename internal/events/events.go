package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TopicTransactionCompleted = "transaction_completed"

// TransactionCompleted is emitted once per committed ledger transaction. A
// transfer emits two, one per leg, sharing TransferID.
type TransactionCompleted struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
	TransferID    *uuid.UUID      `json:"transfer_id,omitempty"`
}

// Publisher delivers events to an external broker. Implementations must be
// safe for concurrent use.
type Publisher interface {
	Publish(topic string, event any) error
}
