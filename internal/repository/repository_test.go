package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/finance-service/internal/models"
)

// openTestRepository connects to FINANCE_TEST_DB or skips the test.
func openTestRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := os.Getenv("FINANCE_TEST_DB")
	if dsn == "" {
		t.Skip("FINANCE_TEST_DB not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestRepositoryLedger(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	user := &models.User{
		Username:     "ledger",
		Email:        fmt.Sprintf("ledger-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "hash",
	}
	require.NoError(t, repo.CreateUser(ctx, user))

	found, err := repo.FindUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindUserByEmail(ctx, "missing-"+user.Email)
	assert.ErrorIs(t, err, ErrNotFound)

	account := &models.Account{UserID: user.ID, Name: "Main", Currency: "INR", IsDefault: true}
	require.NoError(t, repo.CreateAccount(ctx, account))

	owner, err := repo.FindAccountOwner(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, owner)

	march := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateTransactions(ctx, []models.Transaction{
		{UserID: user.ID, AccountID: account.ID, Type: models.TransactionIncome, Category: "salary", Amount: decimal.NewFromInt(1000), Date: march},
		{UserID: user.ID, AccountID: account.ID, Type: models.TransactionExpense, Category: "food", Amount: decimal.NewFromInt(150), Date: april},
	}))

	accounts, err := repo.ListAccounts(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].Balance.Equal(decimal.NewFromInt(850)))

	inMarch, err := repo.FindTransactions(ctx, user.ID,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, inMarch, 1)
	assert.Equal(t, "salary", inMarch[0].Category)

	budget, err := repo.FindBudget(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, budget)

	require.NoError(t, repo.UpsertBudget(ctx, &models.Budget{UserID: user.ID, Amount: decimal.NewFromInt(500)}))
	require.NoError(t, repo.UpsertBudget(ctx, &models.Budget{UserID: user.ID, Amount: decimal.NewFromInt(700)}))
	budget, err = repo.FindBudget(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, budget)
	assert.True(t, budget.Amount.Equal(decimal.NewFromInt(700)))
}
