package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO finance.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

const selectUser = `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM finance.users`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every registered user
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO finance.accounts (user_id, name, balance, currency, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, account.UserID, account.Name, account.Balance, account.Currency, account.IsDefault).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// ListAccounts returns the accounts of a user, default account first
func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	query := `
		SELECT id, user_id, name, balance, currency, is_default, created_at, updated_at
		FROM finance.accounts
		WHERE user_id = $1
		ORDER BY is_default DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.Currency, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// FindAccountOwner returns the user id owning an account
func (r *Repository) FindAccountOwner(ctx context.Context, accountID int64) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM finance.accounts WHERE id = $1`, accountID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("account %d: %w", accountID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find account: %w", err)
	}
	return userID, nil
}

// CreateTransactions books transactions and adjusts account balances in one
// database transaction.
func (r *Repository) CreateTransactions(ctx context.Context, txs []models.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback() //nolint:errcheck

	insert := `
		INSERT INTO finance.transactions (user_id, account_id, type, category, amount, date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	balance := `
		UPDATE finance.accounts
		SET balance = balance + $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`

	for i := range txs {
		tx := &txs[i]
		err := dbTx.QueryRowContext(ctx, insert, tx.UserID, tx.AccountID, tx.Type, tx.Category, tx.Amount, tx.Date, tx.Description).
			Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		delta := tx.Amount
		if tx.Type == models.TransactionExpense {
			delta = delta.Neg()
		}
		if _, err := dbTx.ExecContext(ctx, balance, delta, tx.AccountID); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateTransaction books a single transaction
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	txs := []models.Transaction{*tx}
	if err := r.CreateTransactions(ctx, txs); err != nil {
		return err
	}
	*tx = txs[0]
	return nil
}

const selectTransaction = `
		SELECT id, user_id, account_id, type, category, amount, date, description, created_at
		FROM finance.transactions`

func (r *Repository) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Type, &t.Category, &t.Amount, &t.Date, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// ListTransactions returns the latest transactions of a user, newest first
func (r *Repository) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	return r.queryTransactions(ctx, selectTransaction+`
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2`, userID, limit)
}

// FindTransactions returns a user's transactions dated within [start, end],
// where end names a calendar day and the whole day is included.
func (r *Repository) FindTransactions(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error) {
	return r.queryTransactions(ctx, selectTransaction+`
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date, id`, userID, start, end.AddDate(0, 0, 1))
}

// FindBudget returns the user's budget, or nil if none was set
func (r *Repository) FindBudget(ctx context.Context, userID int64) (*models.Budget, error) {
	b := &models.Budget{}
	query := `
		SELECT id, user_id, amount, updated_at
		FROM finance.budgets
		WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&b.ID, &b.UserID, &b.Amount, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	return b, nil
}

// UpsertBudget sets the monthly budget of a user
func (r *Repository) UpsertBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO finance.budgets (user_id, amount, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
		RETURNING id, updated_at`
	err := r.db.QueryRowContext(ctx, query, budget.UserID, budget.Amount).Scan(&budget.ID, &budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}
