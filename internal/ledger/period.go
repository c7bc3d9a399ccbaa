// Package ledger aggregates a user's ledger entries into the monthly datasets
// the AI prompts are built from.
package ledger

import "time"

// Period is a calendar month: Start is the first day at midnight, End the
// last day at midnight. Ranges are inclusive of the whole End day.
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthPeriod returns the calendar month containing t, in t's location.
func MonthPeriod(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, -1),
	}
}

// Previous returns the calendar month before p.
func (p Period) Previous() Period {
	return MonthPeriod(p.Start.AddDate(0, -1, 0))
}

// Label formats the month as YYYY-MM.
func (p Period) Label() string {
	return p.Start.Format("2006-01")
}

// ParseMonth parses a YYYY-MM label into its period.
func ParseMonth(label string, loc *time.Location) (Period, error) {
	t, err := time.ParseInLocation("2006-01", label, loc)
	if err != nil {
		return Period{}, err
	}
	return MonthPeriod(t), nil
}
