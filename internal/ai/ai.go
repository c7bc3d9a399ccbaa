// Package ai classifies generative-language failures and parses model output
// leniently. Model output is untrusted text; nothing here returns a parse error.
package ai

import (
	"context"
	"errors"
	"strings"
)

// Generator turns a prompt into free-form text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ErrorKind classifies a failed AI-backed operation.
type ErrorKind string

const (
	QuotaExceeded ErrorKind = "QUOTA_EXCEEDED"
	GeneralError  ErrorKind = "GENERAL_ERROR"
)

// QuotaMessage is the user-facing text for QuotaExceeded.
const QuotaMessage = "API quota exceeded. Please try again later or upgrade your plan."

// ErrQuotaExceeded may be wrapped by Generator implementations that detect
// rate limiting structurally.
var ErrQuotaExceeded = errors.New("quota exceeded")

// quotaMarkers are matched case-sensitively against the error message.
var quotaMarkers = []string{"429", "quota", "rate limit"}

// Classify maps a generator error to QuotaExceeded or GeneralError.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return QuotaExceeded
	}
	msg := err.Error()
	for _, m := range quotaMarkers {
		if strings.Contains(msg, m) {
			return QuotaExceeded
		}
	}
	return GeneralError
}
