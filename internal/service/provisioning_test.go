package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebanking/ledger/internal/domain"
	"github.com/corebanking/ledger/internal/repository"
	"github.com/corebanking/ledger/internal/service"
	"github.com/corebanking/ledger/internal/testutil"
)

func setupServices(db *sql.DB) (*service.CustomerService, *service.AccountService) {
	customers := repository.NewCustomerRepository(db)
	accounts := repository.NewAccountRepository(db)
	return service.NewCustomerService(customers), service.NewAccountService(accounts, customers)
}

func TestCreateCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customerSvc, _ := setupServices(db)
	ctx := context.Background()

	c, err := customerSvc.CreateCustomer(ctx, "Alice", "1 Main St")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "Alice", c.Name)
	assert.Equal(t, "1 Main St", c.Address)

	var name, address string
	require.NoError(t, db.QueryRow(`SELECT name, address FROM customers WHERE id = $1`, c.ID).Scan(&name, &address))
	assert.Equal(t, "Alice", name)
	assert.Equal(t, "1 Main St", address)
}

func TestCreateCustomer_BlankName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customerSvc, _ := setupServices(db)

	for _, name := range []string{"", "   "} {
		_, err := customerSvc.CreateCustomer(context.Background(), name, "somewhere")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestCreateCustomer_AddressDefaultsToEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customerSvc, _ := setupServices(db)

	c, err := customerSvc.CreateCustomer(context.Background(), "Bob", "")

	require.NoError(t, err)
	assert.Equal(t, "", c.Address)
}

func TestCreateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customerSvc, accountSvc := setupServices(db)
	ctx := context.Background()

	c, err := customerSvc.CreateCustomer(ctx, "Alice", "")
	require.NoError(t, err)

	a, err := accountSvc.CreateAccount(ctx, c.ID)

	require.NoError(t, err)
	assert.True(t, a.Balance.IsZero(), "new account balance = %s", a.Balance)
	assert.Len(t, a.Number, 10)
	assert.Equal(t, c.ID, a.CustomerID)
	assert.Equal(t, int64(1), a.Version)

	// balance starts at zero regardless of caller input; verify persisted row
	assert.True(t, testutil.GetAccountBalance(t, db, a.ID).IsZero())
}

func TestCreateAccount_MissingCustomerID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	_, accountSvc := setupServices(db)

	_, err := accountSvc.CreateAccount(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateAccount_CustomerNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	_, accountSvc := setupServices(db)

	_, err := accountSvc.CreateAccount(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCreateAccount_UniqueNumbers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customerSvc, accountSvc := setupServices(db)
	ctx := context.Background()

	c, err := customerSvc.CreateCustomer(ctx, "Alice", "")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for range 10 {
		a, err := accountSvc.CreateAccount(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, seen[a.Number], "duplicate account number %s", a.Number)
		seen[a.Number] = true
	}
}

func TestListCustomers_OrderedByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customerSvc, _ := setupServices(db)
	ctx := context.Background()

	for _, name := range []string{"Charlie", "Alice", "Bob"} {
		_, err := customerSvc.CreateCustomer(ctx, name, "")
		require.NoError(t, err)
	}

	page, err := customerSvc.ListCustomers(ctx, 0, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Alice", page.Items[0].Name)
	assert.Equal(t, "Bob", page.Items[1].Name)
	assert.Equal(t, "Charlie", page.Items[2].Name)
}

func TestListAccounts_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customerSvc, accountSvc := setupServices(db)
	ctx := context.Background()

	c, err := customerSvc.CreateCustomer(ctx, "Alice", "")
	require.NoError(t, err)

	for range 5 {
		_, err := accountSvc.CreateAccount(ctx, c.ID)
		require.NoError(t, err)
	}

	page, err := accountSvc.ListAccounts(ctx, 0, 2, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalCount)
	require.Len(t, page.Items, 2)
	// ordered by account number ascending
	assert.Less(t, page.Items[0].Number, page.Items[1].Number)

	last, err := accountSvc.ListAccounts(ctx, 2, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), last.TotalCount)
	assert.Len(t, last.Items, 1)

	empty, err := accountSvc.ListAccounts(ctx, 10, 2, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, int64(5), empty.TotalCount)
}

func TestListAccounts_CustomerFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customerSvc, accountSvc := setupServices(db)
	ctx := context.Background()

	alice, err := customerSvc.CreateCustomer(ctx, "Alice", "")
	require.NoError(t, err)
	bob, err := customerSvc.CreateCustomer(ctx, "Bob", "")
	require.NoError(t, err)

	for range 3 {
		_, err := accountSvc.CreateAccount(ctx, alice.ID)
		require.NoError(t, err)
	}
	_, err = accountSvc.CreateAccount(ctx, bob.ID)
	require.NoError(t, err)

	page, err := accountSvc.ListAccounts(ctx, 0, 10, &alice.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Items, 3)
	for _, a := range page.Items {
		assert.Equal(t, alice.ID, a.CustomerID)
	}
}
