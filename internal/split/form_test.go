package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/finance-service/internal/models"
)

func TestRemoveParticipant(t *testing.T) {
	form := models.SplitExpenseForm{
		Participants: named("P0", "P1", "P2"),
		PaymentStatus: map[int]models.PaymentStatus{
			0: models.PaymentPending,
			1: models.PaymentRequested,
			2: models.PaymentPaid,
		},
	}

	require.NoError(t, RemoveParticipant(&form, 1))
	assert.Equal(t, named("P0", "P2"), form.Participants)
	assert.Equal(t, map[int]models.PaymentStatus{
		0: models.PaymentPending,
		1: models.PaymentPaid,
	}, form.PaymentStatus)
}

func TestRemoveParticipantGuards(t *testing.T) {
	form := models.NewSplitExpenseForm("me")
	assert.ErrorIs(t, RemoveParticipant(&form, 0), ErrLastParticipant)
	assert.ErrorIs(t, RemoveParticipant(&form, 3), ErrIndexOutOfRange)
	assert.ErrorIs(t, RemoveParticipant(&form, -1), ErrIndexOutOfRange)
	assert.Len(t, form.Participants, 1)
}

func TestAddAndUpdateParticipant(t *testing.T) {
	form := models.NewSplitExpenseForm("")
	AddParticipant(&form)
	require.Len(t, form.Participants, 2)

	require.NoError(t, UpdateParticipant(&form, 1, FieldName, "Bob"))
	require.NoError(t, UpdateParticipant(&form, 1, FieldPhoneNumber, "919222222222"))
	assert.Equal(t, models.Participant{Name: "Bob", PhoneNumber: "919222222222"}, form.Participants[1])

	assert.ErrorIs(t, UpdateParticipant(&form, 1, "email", "x"), ErrUnknownField)
	assert.ErrorIs(t, UpdateParticipant(&form, 2, FieldName, "x"), ErrIndexOutOfRange)
}

func TestPrepareRequest(t *testing.T) {
	form := models.SplitExpenseForm{
		TotalAmount:    "1200",
		RequesterName:  "Me",
		RequesterUpiID: "me@upi",
		Participants: []models.Participant{
			{Name: "Alice", PhoneNumber: "919111111111"},
			{Name: "Bob", PhoneNumber: "919222222222"},
			{Name: "Carol"},
		},
	}

	req, err := PrepareRequest(form, 0)
	require.NoError(t, err)
	assert.Equal(t, 400.0, req.Amount)
	assert.Equal(t, DefaultReason, req.Reason)
	assert.Equal(t, "Alice", req.Participant.Name)

	_, err = PrepareRequest(form, 2)
	assert.ErrorIs(t, err, ErrIncompleteRequest)

	form.RequesterUpiID = ""
	_, err = PrepareRequest(form, 0)
	assert.ErrorIs(t, err, ErrIncompleteRequest)

	_, err = PrepareRequest(form, 9)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestValidateForm(t *testing.T) {
	valid := models.SplitExpenseForm{
		TotalAmount:    "50",
		RequesterName:  "Me",
		RequesterUpiID: "me@upi",
		Description:    "Lunch",
		Participants:   []models.Participant{{Name: "A", PhoneNumber: "919111111111"}},
	}
	assert.Empty(t, ValidateForm(valid))

	invalid := valid
	invalid.TotalAmount = "-3"
	invalid.RequesterUpiID = "meupi"
	invalid.Participants = []models.Participant{{Name: "A"}}

	errs := ValidateForm(invalid)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"totalAmount", "requesterUpiId", "participants.0.phoneNumber"}, fields)
}
