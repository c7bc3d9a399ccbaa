package split

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
)

var (
	ErrIndexOutOfRange   = errors.New("participant index out of range")
	ErrLastParticipant   = errors.New("at least one participant is required")
	ErrUnknownField      = errors.New("unknown participant field")
	ErrIncompleteRequest = errors.New("payment request is incomplete")
)

// DefaultReason is used in payment requests when the form has no description.
const DefaultReason = "Split expense"

// Participant field names accepted by UpdateParticipant.
const (
	FieldName        = "name"
	FieldPhoneNumber = "phoneNumber"
)

// AddParticipant appends an empty participant.
func AddParticipant(form *models.SplitExpenseForm) {
	form.Participants = append(form.Participants, models.Participant{})
}

// UpdateParticipant edits one field of the participant at index in place.
func UpdateParticipant(form *models.SplitExpenseForm, index int, field, value string) error {
	if index < 0 || index >= len(form.Participants) {
		return ErrIndexOutOfRange
	}
	switch field {
	case FieldName:
		form.Participants[index].Name = value
	case FieldPhoneNumber:
		form.Participants[index].PhoneNumber = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// RemoveParticipant deletes the participant at index and reindexes the
// payment statuses. The last remaining participant cannot be removed.
func RemoveParticipant(form *models.SplitExpenseForm, index int) error {
	if index < 0 || index >= len(form.Participants) {
		return ErrIndexOutOfRange
	}
	if len(form.Participants) <= 1 {
		return ErrLastParticipant
	}

	participants := make([]models.Participant, 0, len(form.Participants)-1)
	participants = append(participants, form.Participants[:index]...)
	participants = append(participants, form.Participants[index+1:]...)
	form.Participants = participants

	tracker := NewTracker(form.PaymentStatus)
	tracker.Remove(index)
	form.PaymentStatus = tracker.Statuses()
	return nil
}

// PaymentRequest is everything needed to ask one participant for their share.
type PaymentRequest struct {
	Index          int
	Participant    models.Participant
	RequesterName  string
	RequesterUpiID string
	Amount         float64
	Reason         string
}

// PrepareRequest checks the request preconditions for the participant at index
// and computes the share to ask for.
func PrepareRequest(form models.SplitExpenseForm, index int) (PaymentRequest, error) {
	if index < 0 || index >= len(form.Participants) {
		return PaymentRequest{}, ErrIndexOutOfRange
	}
	p := form.Participants[index]

	switch {
	case form.RequesterName == "" || form.RequesterUpiID == "":
		return PaymentRequest{}, fmt.Errorf("%w: fill in requester name and UPI ID", ErrIncompleteRequest)
	case p.Name == "":
		return PaymentRequest{}, fmt.Errorf("%w: fill in participant name", ErrIncompleteRequest)
	case p.PhoneNumber == "":
		return PaymentRequest{}, fmt.Errorf("%w: fill in phone number to send WhatsApp message", ErrIncompleteRequest)
	}

	reason := form.Description
	if reason == "" {
		reason = DefaultReason
	}

	return PaymentRequest{
		Index:          index,
		Participant:    p,
		RequesterName:  form.RequesterName,
		RequesterUpiID: form.RequesterUpiID,
		Amount:         Amount(form.TotalAmount, form.Participants),
		Reason:         reason,
	}, nil
}

// FieldError is one failed form rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateForm applies the submit-time rules of the split form.
func ValidateForm(form models.SplitExpenseForm) []FieldError {
	var errs []FieldError
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	if form.TotalAmount == "" {
		add("totalAmount", "Amount is required")
	} else if ParseAmount(form.TotalAmount) <= 0 {
		add("totalAmount", "Amount must be a positive number")
	}
	if form.RequesterName == "" {
		add("requesterName", "Requester name is required")
	}
	if form.RequesterUpiID == "" {
		add("requesterUpiId", "Requester UPI ID is required")
	} else if !strings.Contains(form.RequesterUpiID, "@") {
		add("requesterUpiId", "Invalid UPI ID format (must include @)")
	}
	if form.Description == "" {
		add("description", "Description is required")
	}
	if len(form.Participants) == 0 {
		add("participants", "At least one participant is required")
	}
	for i, p := range form.Participants {
		if p.Name == "" {
			add(fmt.Sprintf("participants.%d.name", i), "Name is required")
		}
		if p.PhoneNumber == "" {
			add(fmt.Sprintf("participants.%d.phoneNumber", i), "Phone number is required")
		}
	}
	return errs
}
