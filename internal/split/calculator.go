// Package split holds the equal-split arithmetic, the per-participant payment
// state machine and the mutations applied to a split-expense form.
package split

import (
	"math"
	"strconv"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
)

// ParseAmount parses a decimal string leniently. Invalid or empty input is 0.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ValidCount is the number of participants with a non-blank name, but never
// less than 1: with nobody named the whole amount is assigned to the requester.
func ValidCount(participants []models.Participant) int {
	n := 0
	for _, p := range participants {
		if strings.TrimSpace(p.Name) != "" {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

// Amount returns the full-precision per-person share of total.
func Amount(total string, participants []models.Participant) float64 {
	return ParseAmount(total) / float64(ValidCount(participants))
}

// FormatAmount renders a share for display with two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Summary is the derived view of a form.
type Summary struct {
	TotalAmount       float64        `json:"totalAmount"`
	ParticipantCount  int            `json:"participantCount"`
	SplitAmount       float64        `json:"splitAmount"`
	SplitAmountFormat string         `json:"splitAmountFormatted"`
	Requests          []RequestState `json:"requests"`
}

// RequestState is a named participant with its payment status.
type RequestState struct {
	Index       int                  `json:"index"`
	Name        string               `json:"name"`
	PhoneNumber string               `json:"phoneNumber"`
	Status      models.PaymentStatus `json:"status"`
}

// Summarize recomputes the split for form. Nothing is cached.
func Summarize(form models.SplitExpenseForm) Summary {
	share := Amount(form.TotalAmount, form.Participants)
	tracker := NewTracker(form.PaymentStatus)

	requests := make([]RequestState, 0, len(form.Participants))
	for i, p := range form.Participants {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		requests = append(requests, RequestState{
			Index:       i,
			Name:        p.Name,
			PhoneNumber: p.PhoneNumber,
			Status:      tracker.Status(i),
		})
	}

	return Summary{
		TotalAmount:       ParseAmount(form.TotalAmount),
		ParticipantCount:  ValidCount(form.Participants),
		SplitAmount:       share,
		SplitAmountFormat: FormatAmount(share),
		Requests:          requests,
	}
}
