package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/finance-service/internal/models"
)

// OtherCategory collects expenses without a category.
const OtherCategory = "other"

// Source is the ledger data the aggregator reads.
type Source interface {
	// FindTransactions returns the user's entries dated within [start, end], whole end day included.
	FindTransactions(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error)
	// FindBudget returns the user's budget or nil when none is set.
	FindBudget(ctx context.Context, userID int64) (*models.Budget, error)
}

// Summarize partitions entries by type and sums them for one month.
func Summarize(month string, entries []models.Transaction) models.MonthlySummary {
	s := models.MonthlySummary{
		Month:            month,
		TotalIncome:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		CategorySpending: map[string]decimal.Decimal{},
		TransactionCount: len(entries),
	}
	for _, e := range entries {
		switch e.Type {
		case models.TransactionIncome:
			s.TotalIncome = s.TotalIncome.Add(e.Amount)
		case models.TransactionExpense:
			s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
			cat := categoryOf(e)
			s.CategorySpending[cat] = s.CategorySpending[cat].Add(e.Amount)
		}
	}
	s.NetIncome = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

func categoryOf(e models.Transaction) string {
	if strings.TrimSpace(e.Category) == "" {
		return OtherCategory
	}
	return e.Category
}

// Aggregator builds prompt datasets from a Source.
type Aggregator struct {
	source Source
}

// NewAggregator creates an aggregator over source.
func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// MonthlyReportData summarizes the month containing month and the month before it.
func (a *Aggregator) MonthlyReportData(ctx context.Context, userID int64, month time.Time) (*models.MonthlyReportData, error) {
	current := MonthPeriod(month)
	previous := current.Previous()

	curEntries, err := a.entries(ctx, userID, current)
	if err != nil {
		return nil, err
	}
	prevEntries, err := a.entries(ctx, userID, previous)
	if err != nil {
		return nil, err
	}
	limits, err := a.budgetLimits(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.MonthlyReportData{
		CurrentMonth:  Summarize(current.Label(), curEntries),
		PreviousMonth: Summarize(previous.Label(), prevEntries),
		BudgetLimits:  limits,
	}, nil
}

// AdviceData lists the income and the expense lines of the month containing month.
func (a *Aggregator) AdviceData(ctx context.Context, userID int64, month time.Time) (*models.AdviceData, error) {
	period := MonthPeriod(month)
	entries, err := a.entries(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	limits, err := a.budgetLimits(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := Summarize(period.Label(), entries)
	data := &models.AdviceData{
		MonthlyIncome:       summary.TotalIncome,
		ExpenseTransactions: []models.ExpenseLine{},
		MonthlyBudgets:      limits,
	}
	for _, e := range entries {
		if e.Type != models.TransactionExpense {
			continue
		}
		data.ExpenseTransactions = append(data.ExpenseTransactions, models.ExpenseLine{
			Category:    e.Category,
			Amount:      e.Amount,
			Date:        e.Date.UTC().Format(time.RFC3339),
			Description: e.Description,
		})
	}
	return data, nil
}

// ExpenseHistory returns expense totals for the given number of months ending
// with the month containing now, oldest first.
func (a *Aggregator) ExpenseHistory(ctx context.Context, userID int64, now time.Time, months int) (*models.ExpenseHistory, error) {
	if months <= 0 {
		return nil, fmt.Errorf("months must be positive, got %d", months)
	}

	history := &models.ExpenseHistory{MonthlyData: make([]models.MonthlyExpenses, months)}
	period := MonthPeriod(now)
	for i := months - 1; i >= 0; i-- {
		entries, err := a.entries(ctx, userID, period)
		if err != nil {
			return nil, err
		}
		expenses := make([]models.Transaction, 0, len(entries))
		for _, e := range entries {
			if e.Type == models.TransactionExpense {
				expenses = append(expenses, e)
			}
		}
		s := Summarize(period.Label(), expenses)
		history.MonthlyData[i] = models.MonthlyExpenses{
			Month:            s.Month,
			TotalExpenses:    s.TotalExpenses,
			ByCategory:       s.CategorySpending,
			TransactionCount: s.TransactionCount,
		}
		period = period.Previous()
	}

	limits, err := a.budgetLimits(ctx, userID)
	if err != nil {
		return nil, err
	}
	history.BudgetLimits = limits
	return history, nil
}

func (a *Aggregator) entries(ctx context.Context, userID int64, p Period) ([]models.Transaction, error) {
	entries, err := a.source.FindTransactions(ctx, userID, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for %s: %w", p.Label(), err)
	}
	return entries, nil
}

func (a *Aggregator) budgetLimits(ctx context.Context, userID int64) (*models.BudgetLimits, error) {
	budget, err := a.source.FindBudget(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}
	if budget == nil {
		return nil, nil
	}
	return &models.BudgetLimits{
		Total:      budget.Amount,
		ByCategory: map[string]decimal.Decimal{},
	}, nil
}
