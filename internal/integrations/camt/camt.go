// Package camt reads ISO 20022 camt.053 bank-to-customer statements.
package camt

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/Dan9191/finance-service/internal/ledger"
	"github.com/Dan9191/finance-service/internal/models"
)

var ErrNoEntries = errors.New("statement contains no entries")

// Entry is one booked statement line
type Entry struct {
	Amount      decimal.Decimal
	Currency    string
	Credit      bool
	BookingDate time.Time
	Description string
	Category    string
}

// Statement is a parsed camt.053 statement
type Statement struct {
	ID      string
	IBAN    string
	Entries []Entry
}

// Parse reads a camt.053 document. Pending (non-BOOK) entries are skipped.
func Parse(r io.Reader) (*Statement, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	stmt := doc.FindElement("//BkToCstmrStmt/Stmt")
	if stmt == nil {
		return nil, fmt.Errorf("statement element not found in XML")
	}

	out := &Statement{
		ID:   text(stmt, "./Id"),
		IBAN: text(stmt, "./Acct/Id/IBAN"),
	}

	for i, ntry := range stmt.FindElements("./Ntry") {
		if sts := text(ntry, "./Sts/Cd"); sts == "" {
			if sts = text(ntry, "./Sts"); sts != "" && sts != "BOOK" {
				continue
			}
		} else if sts != "BOOK" {
			continue
		}

		entry, err := parseEntry(ntry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		out.Entries = append(out.Entries, entry)
	}

	if len(out.Entries) == 0 {
		return nil, ErrNoEntries
	}
	return out, nil
}

func parseEntry(ntry *etree.Element) (Entry, error) {
	amt := ntry.FindElement("./Amt")
	if amt == nil {
		return Entry{}, fmt.Errorf("amount element not found")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(amt.Text()))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to parse amount: %w", err)
	}

	var credit bool
	switch ind := text(ntry, "./CdtDbtInd"); ind {
	case "CRDT":
		credit = true
	case "DBIT":
	default:
		return Entry{}, fmt.Errorf("unknown credit/debit indicator %q", ind)
	}

	date, err := bookingDate(ntry)
	if err != nil {
		return Entry{}, err
	}

	desc := text(ntry, "./NtryDtls/TxDtls/RmtInf/Ustrd")
	if desc == "" {
		desc = text(ntry, "./AddtlNtryInf")
	}

	category := strings.ToLower(text(ntry, "./BkTxCd/Prtry/Cd"))
	if category == "" {
		category = ledger.OtherCategory
	}

	return Entry{
		Amount:      amount.Abs(),
		Currency:    amt.SelectAttrValue("Ccy", ""),
		Credit:      credit,
		BookingDate: date,
		Description: desc,
		Category:    category,
	}, nil
}

func bookingDate(ntry *etree.Element) (time.Time, error) {
	if v := text(ntry, "./BookgDt/Dt"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse booking date: %w", err)
		}
		return d, nil
	}
	if v := text(ntry, "./BookgDt/DtTm"); v != "" {
		d, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse booking date: %w", err)
		}
		return d, nil
	}
	return time.Time{}, fmt.Errorf("booking date not found")
}

func text(e *etree.Element, path string) string {
	if el := e.FindElement(path); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

// Transactions converts the statement entries into ledger transactions for
// the given user and account. Credits become income, debits expenses.
func (s *Statement) Transactions(userID, accountID int64) []models.Transaction {
	txs := make([]models.Transaction, 0, len(s.Entries))
	for _, e := range s.Entries {
		typ := models.TransactionExpense
		if e.Credit {
			typ = models.TransactionIncome
		}
		txs = append(txs, models.Transaction{
			UserID:      userID,
			AccountID:   accountID,
			Type:        typ,
			Category:    e.Category,
			Amount:      e.Amount,
			Date:        e.BookingDate,
			Description: e.Description,
		})
	}
	return txs
}
