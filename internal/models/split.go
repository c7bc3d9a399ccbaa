package models

// PaymentStatus is the advisory request state of one split participant
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentRequested PaymentStatus = "requested"
	PaymentPaid      PaymentStatus = "paid"
)

// Participant is a person sharing the expense
type Participant struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// SplitExpenseForm is the durable split-expense form snapshot.
// PaymentStatus is keyed by participant index; a missing key means pending.
type SplitExpenseForm struct {
	TotalAmount    string                `json:"totalAmount"`
	RequesterName  string                `json:"requesterName"`
	RequesterUpiID string                `json:"requesterUpiId"`
	Description    string                `json:"description"`
	Participants   []Participant         `json:"participants"`
	PaymentStatus  map[int]PaymentStatus `json:"paymentStatus"`
}

// NewSplitExpenseForm returns the initial form: one empty participant, nothing requested.
func NewSplitExpenseForm(requesterName string) SplitExpenseForm {
	return SplitExpenseForm{
		RequesterName: requesterName,
		Participants:  []Participant{{}},
		PaymentStatus: map[int]PaymentStatus{},
	}
}
