// Package servicetest provides an in-memory Repository for tests.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/repository"
)

// Repository keeps users, accounts, transactions and budgets in memory.
// Transactions are not applied to account balances.
type Repository struct {
	mu       sync.Mutex
	users    []models.User
	accounts []models.Account
	txs      []models.Transaction
	budgets  map[int64]models.Budget

	// TxErr, when set, is returned by FindTransactions.
	TxErr error
}

// NewRepository returns an empty Repository
func NewRepository() *Repository {
	return &Repository{budgets: map[int64]models.Budget{}}
}

func (r *Repository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = int64(len(r.users) + 1)
	r.users = append(r.users, *user)
	return nil
}

func (r *Repository) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Repository) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Repository) ListUsers(context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.User(nil), r.users...), nil
}

func (r *Repository) CreateAccount(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.ID = int64(len(r.accounts) + 1)
	r.accounts = append(r.accounts, *account)
	return nil
}

func (r *Repository) ListAccounts(_ context.Context, userID int64) ([]models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *Repository) FindAccountOwner(_ context.Context, accountID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ID == accountID {
			return a.UserID, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	txs := []models.Transaction{*tx}
	if err := r.CreateTransactions(ctx, txs); err != nil {
		return err
	}
	*tx = txs[0]
	return nil
}

func (r *Repository) CreateTransactions(_ context.Context, txs []models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range txs {
		txs[i].ID = int64(len(r.txs) + 1)
		r.txs = append(r.txs, txs[i])
	}
	return nil
}

func (r *Repository) ListTransactions(_ context.Context, userID int64, limit int) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, t := range r.txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FindTransactions mirrors the SQL range: start <= date < end + 1 day.
func (r *Repository) FindTransactions(_ context.Context, userID int64, start, end time.Time) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.TxErr != nil {
		return nil, r.TxErr
	}
	until := end.AddDate(0, 0, 1)
	var out []models.Transaction
	for _, t := range r.txs {
		if t.UserID == userID && !t.Date.Before(start) && t.Date.Before(until) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *Repository) FindBudget(_ context.Context, userID int64) (*models.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.budgets[userID]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *Repository) UpsertBudget(_ context.Context, budget *models.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	budget.ID = budget.UserID
	r.budgets[budget.UserID] = *budget
	return nil
}
