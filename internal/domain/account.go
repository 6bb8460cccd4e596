package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID         uuid.UUID
	Number     string
	Balance    decimal.Decimal
	Version    int64
	CustomerID uuid.UUID
	CreatedAt  time.Time
}
