package split

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dan9191/finance-service/internal/models"
)

func named(names ...string) []models.Participant {
	ps := make([]models.Participant, len(names))
	for i, n := range names {
		ps[i] = models.Participant{Name: n}
	}
	return ps
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		participants []models.Participant
		want         string
	}{
		{"three named", "900", named("A", "B", "C"), "300.00"},
		{"nobody named divides by one", "100", named("", "  "), "100.00"},
		{"no participants", "100", nil, "100.00"},
		{"empty total", "", named("A", "B"), "0.00"},
		{"non numeric total", "abc", named("A"), "0.00"},
		{"nan is not a number", "NaN", named("A"), "0.00"},
		{"blank names are not counted", "1200", named("Alice", "", "Bob"), "600.00"},
		{"fractional share", "100", named("A", "B", "C"), "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(Amount(tt.total, tt.participants)))
		})
	}
}

func TestAmountKeepsPrecision(t *testing.T) {
	share := Amount("100", named("A", "B", "C"))
	assert.InDelta(t, 100.0, share*3, 1e-9)
}

func TestSummarize(t *testing.T) {
	form := models.SplitExpenseForm{
		TotalAmount: "1200",
		Participants: []models.Participant{
			{Name: "Alice", PhoneNumber: "919111111111"},
			{Name: ""},
			{Name: "Bob", PhoneNumber: "919222222222"},
		},
		PaymentStatus: map[int]models.PaymentStatus{2: models.PaymentRequested},
	}

	s := Summarize(form)
	assert.Equal(t, 1200.0, s.TotalAmount)
	assert.Equal(t, 2, s.ParticipantCount)
	assert.Equal(t, "600.00", s.SplitAmountFormat)
	assert.Equal(t, []RequestState{
		{Index: 0, Name: "Alice", PhoneNumber: "919111111111", Status: models.PaymentPending},
		{Index: 2, Name: "Bob", PhoneNumber: "919222222222", Status: models.PaymentRequested},
	}, s.Requests)
}
