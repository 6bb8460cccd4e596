package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebanking/ledger/internal/domain"
)

// Input checks run in a fixed order so error reporting is deterministic:
// required identifiers, then field shape, then amount positivity. Existence
// and balance checks come later, against the store.

func validateMovement(accountID uuid.UUID, amount decimal.Decimal) error {
	if accountID == uuid.Nil {
		return fmt.Errorf("validateMovement: account id: %w", domain.ErrInvalidInput)
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("validateMovement: %w", domain.ErrInvalidAmount)
	}
	return nil
}

func validateTransferInput(sourceID uuid.UUID, destNumber string, amount decimal.Decimal) error {
	if sourceID == uuid.Nil {
		return fmt.Errorf("validateTransferInput: source account id: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(destNumber) == "" {
		return fmt.Errorf("validateTransferInput: destination number: %w", domain.ErrInvalidInput)
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("validateTransferInput: %w", domain.ErrInvalidAmount)
	}
	return nil
}
