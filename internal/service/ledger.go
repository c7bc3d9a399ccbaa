package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-service/internal/integrations/camt"
	"github.com/Dan9191/finance-service/internal/ledger"
	"github.com/Dan9191/finance-service/internal/models"
)

const defaultTransactionLimit = 100

// CreateAccount creates a new account for the user. The first account becomes the default one.
func (s *Service) CreateAccount(ctx context.Context, userID int64, name, currency string) (*models.Account, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
	}

	existing, err := s.repo.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:    userID,
		Name:      name,
		Balance:   decimal.Zero,
		Currency:  currency,
		IsDefault: len(existing) == 0,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.log.Infof("Account created for user %d: %s", userID, account.Currency)
	return account, nil
}

// ListAccounts returns the user's accounts
func (s *Service) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	return s.repo.ListAccounts(ctx, userID)
}

// TransactionInput is a new ledger entry as submitted by the user
type TransactionInput struct {
	AccountID   int64                  `json:"account_id"`
	Type        models.TransactionType `json:"type"`
	Category    string                 `json:"category"`
	Amount      decimal.Decimal        `json:"amount"`
	Date        time.Time              `json:"date"`
	Description string                 `json:"description"`
}

// CreateTransaction books a transaction against one of the user's accounts
func (s *Service) CreateTransaction(ctx context.Context, userID int64, in TransactionInput) (*models.Transaction, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be INCOME or EXPENSE", ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if err := s.checkAccount(ctx, userID, in.AccountID); err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	tx := &models.Transaction{
		UserID:      userID,
		AccountID:   in.AccountID,
		Type:        in.Type,
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Date:        date,
		Description: in.Description,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "account_id": in.AccountID, "type": tx.Type}).Info("Transaction created")
	return tx, nil
}

// ListTransactions returns the user's latest transactions
func (s *Service) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultTransactionLimit
	}
	return s.repo.ListTransactions(ctx, userID, limit)
}

// ImportStatement books every entry of a camt.053 statement and returns how many were imported
func (s *Service) ImportStatement(ctx context.Context, userID, accountID int64, r io.Reader) (int, error) {
	if err := s.checkAccount(ctx, userID, accountID); err != nil {
		return 0, err
	}

	stmt, err := camt.Parse(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	txs := stmt.Transactions(userID, accountID)
	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return 0, err
	}

	s.log.Infof("Imported %d entries of statement %s for user %d", len(txs), stmt.ID, userID)
	return len(txs), nil
}

// SetBudget sets the user's monthly budget
func (s *Service) SetBudget(ctx context.Context, userID int64, amount decimal.Decimal) (*models.Budget, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: budget must be positive", ErrInvalidInput)
	}
	budget := &models.Budget{UserID: userID, Amount: amount}
	if err := s.repo.UpsertBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// MonthActivity returns the summary and the transactions of one month, for export
func (s *Service) MonthActivity(ctx context.Context, userID int64, period ledger.Period) (*models.MonthlyReportData, []models.Transaction, error) {
	data, err := s.ledger.MonthlyReportData(ctx, userID, period.Start)
	if err != nil {
		return nil, nil, err
	}
	txs, err := s.repo.FindTransactions(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return data, txs, nil
}

func (s *Service) checkAccount(ctx context.Context, userID, accountID int64) error {
	owner, err := s.repo.FindAccountOwner(ctx, accountID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	return nil
}
