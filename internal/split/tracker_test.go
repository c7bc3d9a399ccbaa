package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/finance-service/internal/models"
)

func TestTrackerTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.PaymentStatus
		to      models.PaymentStatus
		allowed bool
	}{
		{"pending to requested", models.PaymentPending, models.PaymentRequested, true},
		{"requested again", models.PaymentRequested, models.PaymentRequested, true},
		{"requested to paid", models.PaymentRequested, models.PaymentPaid, true},
		{"pending straight to paid", models.PaymentPending, models.PaymentPaid, false},
		{"paid back to requested", models.PaymentPaid, models.PaymentRequested, false},
		{"paid back to pending", models.PaymentPaid, models.PaymentPending, false},
		{"requested back to pending", models.PaymentRequested, models.PaymentPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(map[int]models.PaymentStatus{0: tt.from})
			err := tr.Transition(0, tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, tr.Status(0))
			} else {
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, tr.Status(0))
			}
		})
	}
}

func TestTrackerDefaultsToPending(t *testing.T) {
	tr := NewTracker(nil)
	assert.Equal(t, models.PaymentPending, tr.Status(7))

	require.NoError(t, tr.MarkRequested(7))
	require.NoError(t, tr.MarkPaid(7))
	assert.Equal(t, models.PaymentPaid, tr.Statuses()[7])
}

func TestTrackerRemoveReindexes(t *testing.T) {
	tr := NewTracker(map[int]models.PaymentStatus{
		0: models.PaymentPending,
		1: models.PaymentRequested,
		2: models.PaymentPaid,
	})
	tr.Remove(1)

	assert.Equal(t, map[int]models.PaymentStatus{
		0: models.PaymentPending,
		1: models.PaymentPaid,
	}, tr.Statuses())
}

func TestTrackerRemoveSparse(t *testing.T) {
	tr := NewTracker(map[int]models.PaymentStatus{3: models.PaymentRequested, 5: models.PaymentPaid})
	tr.Remove(0)

	assert.Equal(t, models.PaymentRequested, tr.Status(2))
	assert.Equal(t, models.PaymentPaid, tr.Status(4))
	assert.Equal(t, models.PaymentPending, tr.Status(3))
}
