package models

import "github.com/shopspring/decimal"

func init() {
	// amounts go out as JSON numbers, both in API payloads and in AI prompts
	decimal.MarshalJSONWithoutQuotes = true
}

// MonthlySummary represents income and expense statistics for one calendar month
type MonthlySummary struct {
	Month            string                     `json:"month"` // Format: YYYY-MM
	TotalIncome      decimal.Decimal            `json:"totalIncome"`
	TotalExpenses    decimal.Decimal            `json:"totalExpenses"`
	NetIncome        decimal.Decimal            `json:"netIncome"`
	CategorySpending map[string]decimal.Decimal `json:"categorySpending"`
	TransactionCount int                        `json:"transactionCount"`
}

// BudgetLimits represents the monthly budget ceiling.
// ByCategory stays empty until category budgets exist in the schema.
type BudgetLimits struct {
	Total      decimal.Decimal            `json:"total"`
	ByCategory map[string]decimal.Decimal `json:"byCategory"`
}

// MonthlyReportData is the current/previous month comparison sent to the report prompt
type MonthlyReportData struct {
	CurrentMonth  MonthlySummary `json:"currentMonth"`
	PreviousMonth MonthlySummary `json:"previousMonth"`
	BudgetLimits  *BudgetLimits  `json:"budgetLimits"`
}

// ExpenseLine is a single expense as exposed to the advice prompt
type ExpenseLine struct {
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

// AdviceData is the dataset behind a financial advice question
type AdviceData struct {
	MonthlyIncome       decimal.Decimal `json:"monthlyIncome"`
	ExpenseTransactions []ExpenseLine   `json:"expenseTransactions"`
	MonthlyBudgets      *BudgetLimits   `json:"monthlyBudgets"`
}

// MonthlyExpenses represents expense totals for one month of history
type MonthlyExpenses struct {
	Month            string                     `json:"month"`
	TotalExpenses    decimal.Decimal            `json:"totalExpenses"`
	ByCategory       map[string]decimal.Decimal `json:"byCategory"`
	TransactionCount int                        `json:"transactionCount"`
}

// ExpenseHistory is the multi-month dataset used for anomaly detection, oldest month first
type ExpenseHistory struct {
	MonthlyData  []MonthlyExpenses `json:"monthlyData"`
	BudgetLimits *BudgetLimits     `json:"budgetLimits"`
}
