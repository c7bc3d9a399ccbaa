// Package deeplink builds the UPI payment and WhatsApp click-to-chat URIs used
// to request split payments.
//
// The UPI format is an interop contract with third-party payment apps: the
// payee address and amount are inserted verbatim and only the display fields
// are encoded, with spaces written as '+'.
package deeplink

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultNote = "Split expense payment"
	minPhoneLen = 10
)

// ValidationError reports malformed input to a link builder.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidUPI() error {
	return &ValidationError{
		Field:   "upiId",
		Message: "Invalid UPI ID format. Must include @ symbol (e.g., user@paytm)",
	}
}

// BuildUPIPaymentLink returns upi://pay?pa=..&pn=..&am=..&cu=INR&tn=..
func BuildUPIPaymentLink(upiID, name string, amount float64, note string) (string, error) {
	if !strings.Contains(upiID, "@") {
		return "", invalidUPI()
	}

	note = strings.TrimSpace(note)
	if note == "" {
		note = defaultNote
	}

	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s",
		strings.TrimSpace(upiID),
		plusEncode(strings.TrimSpace(name)),
		FormatAmount(amount),
		plusEncode(note),
	), nil
}

// BuildWhatsAppRequestLink returns a wa.me link whose text is a plain-text
// payment request. The requester's UPI ID is embedded as copyable text, never
// as a upi:// link.
func BuildWhatsAppRequestLink(phoneNumber, receiverName, requesterName string, amount float64, reason, requesterUpiID string) (string, error) {
	phone := DigitsOnly(phoneNumber)
	if len(phone) < minPhoneLen {
		return "", &ValidationError{
			Field:   "phoneNumber",
			Message: "Invalid phone number format. Include country code (e.g., 919876543210)",
		}
	}
	if !strings.Contains(requesterUpiID, "@") {
		return "", invalidUPI()
	}

	message := RequestMessage(receiverName, requesterName, amount, reason, requesterUpiID)
	return "https://wa.me/" + phone + "?text=" + EncodeURIComponent(message), nil
}

// RequestMessage renders the WhatsApp payment request text.
func RequestMessage(receiverName, requesterName string, amount float64, reason, requesterUpiID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s!\n\n", receiverName)
	fmt.Fprintf(&b, "%s is requesting a payment.\n\n", requesterName)
	fmt.Fprintf(&b, "Amount: ₹%s\n", FormatAmount(amount))
	fmt.Fprintf(&b, "Reason: %s\n\n", reason)
	fmt.Fprintf(&b, "UPI ID to pay:\n%s\n\n", strings.TrimSpace(requesterUpiID))
	b.WriteString("Please copy this UPI ID and pay using Google Pay / PhonePe / any UPI app.\n\n")
	b.WriteString("Thank you!")
	return b.String()
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// DigitsOnly strips every non-digit character.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func plusEncode(s string) string {
	return strings.ReplaceAll(EncodeURIComponent(s), "%20", "+")
}
