package split

import (
	"errors"
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
)

// ErrInvalidTransition is returned when a status change is not in the transition table.
var ErrInvalidTransition = errors.New("invalid payment status transition")

// transitions lists the allowed moves. Re-sending a request keeps a
// participant in requested; paid is terminal.
var transitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending:   {models.PaymentRequested},
	models.PaymentRequested: {models.PaymentRequested, models.PaymentPaid},
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to models.PaymentStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Tracker is the payment state machine over an index-keyed status map.
// It mutates the map it was built with.
type Tracker struct {
	statuses map[int]models.PaymentStatus
}

// NewTracker wraps statuses. A nil map is replaced by an empty one on first write.
func NewTracker(statuses map[int]models.PaymentStatus) *Tracker {
	return &Tracker{statuses: statuses}
}

// Statuses returns the underlying map.
func (t *Tracker) Statuses() map[int]models.PaymentStatus {
	return t.statuses
}

// Status returns the status at index, pending when unset.
func (t *Tracker) Status(index int) models.PaymentStatus {
	if s, ok := t.statuses[index]; ok && s != "" {
		return s
	}
	return models.PaymentPending
}

// Transition moves index to the next status or returns ErrInvalidTransition.
func (t *Tracker) Transition(index int, to models.PaymentStatus) error {
	from := t.Status(index)
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if t.statuses == nil {
		t.statuses = map[int]models.PaymentStatus{}
	}
	t.statuses[index] = to
	return nil
}

// MarkRequested records a dispatched payment request.
func (t *Tracker) MarkRequested(index int) error {
	return t.Transition(index, models.PaymentRequested)
}

// MarkPaid records a user-confirmed payment.
func (t *Tracker) MarkPaid(index int) error {
	return t.Transition(index, models.PaymentPaid)
}

// Remove drops the status at index and shifts higher indices down by one so
// they stay aligned with the reindexed participant list.
func (t *Tracker) Remove(index int) {
	shifted := make(map[int]models.PaymentStatus, len(t.statuses))
	for i, s := range t.statuses {
		switch {
		case i < index:
			shifted[i] = s
		case i > index:
			shifted[i-1] = s
		}
	}
	t.statuses = shifted
}
