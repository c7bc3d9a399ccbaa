// Package export renders a month of ledger activity as an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/Dan9191/finance-service/internal/models"
)

const (
	SummarySheet      = "Summary"
	TransactionsSheet = "Transactions"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FileName returns the download name for a month label
func FileName(month string) string {
	return fmt.Sprintf("finance-%s.xlsx", month)
}

// Workbook builds the summary and transaction sheets. The caller closes the file.
func Workbook(data *models.MonthlyReportData, txs []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSummary(f, data); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeTransactions(f, txs); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Write streams the workbook to w
func Write(w io.Writer, data *models.MonthlyReportData, txs []models.Transaction) error {
	f, err := Workbook(data, txs)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, data *models.MonthlyReportData) error {
	cur, prev := data.CurrentMonth, data.PreviousMonth
	rows := [][]any{
		{"Metric", cur.Month, prev.Month},
		{"Total income", cur.TotalIncome.InexactFloat64(), prev.TotalIncome.InexactFloat64()},
		{"Total expenses", cur.TotalExpenses.InexactFloat64(), prev.TotalExpenses.InexactFloat64()},
		{"Net income", cur.NetIncome.InexactFloat64(), prev.NetIncome.InexactFloat64()},
		{"Transactions", cur.TransactionCount, prev.TransactionCount},
	}
	if data.BudgetLimits != nil {
		rows = append(rows, []any{"Budget", data.BudgetLimits.Total.InexactFloat64()})
	}
	rows = append(rows, []any{}, []any{"Category", cur.Month, prev.Month})

	categories := make(map[string]struct{})
	for c := range cur.CategorySpending {
		categories[c] = struct{}{}
	}
	for c := range prev.CategorySpending {
		categories[c] = struct{}{}
	}
	names := make([]string, 0, len(categories))
	for c := range categories {
		names = append(names, c)
	}
	sort.Strings(names)
	for _, c := range names {
		rows = append(rows, []any{c, cur.CategorySpending[c].InexactFloat64(), prev.CategorySpending[c].InexactFloat64()})
	}

	return setRows(f, SummarySheet, rows)
}

func writeTransactions(f *excelize.File, txs []models.Transaction) error {
	if _, err := f.NewSheet(TransactionsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	rows := [][]any{{"Date", "Type", "Category", "Amount", "Description"}}
	for _, t := range txs {
		rows = append(rows, []any{t.Date.Format("2006-01-02"), string(t.Type), t.Category, t.Amount.InexactFloat64(), t.Description})
	}
	return setRows(f, TransactionsSheet, rows)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
