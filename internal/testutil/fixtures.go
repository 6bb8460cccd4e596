package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebanking/ledger/internal/domain"
)

func SeedCustomer(t *testing.T, db *sql.DB, name, address string) *domain.Customer {
	t.Helper()

	c := &domain.Customer{
		ID:        domain.NewID(),
		Name:      name,
		Address:   address,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO customers (id, name, address, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Address, c.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed customer %s: %v", name, err)
	}
	return c
}

func SeedAccount(t *testing.T, db *sql.DB, customerID uuid.UUID, number string, balance decimal.Decimal) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:         domain.NewID(),
		Number:     number,
		Balance:    balance,
		Version:    1,
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO accounts (id, number, balance, version, customer_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Number, a.Balance, a.Version, a.CustomerID, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s: %v", number, err)
	}
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	if err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, id).Scan(&balance); err != nil {
		t.Fatalf("get balance for %s: %v", id, err)
	}
	return balance
}

func CountTransactions(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for %s: %v", accountID, err)
	}
	return count
}
