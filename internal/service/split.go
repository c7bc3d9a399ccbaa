package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-service/internal/deeplink"
	"github.com/Dan9191/finance-service/internal/formstore"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/split"
)

const splitFormKeyPrefix = "split-expense-form:"

func splitFormKey(userID int64) string {
	return fmt.Sprintf("%s%d", splitFormKeyPrefix, userID)
}

// SplitFormPatch updates the scalar fields of the split form. Nil fields are left unchanged.
type SplitFormPatch struct {
	TotalAmount    *string `json:"totalAmount"`
	RequesterName  *string `json:"requesterName"`
	RequesterUpiID *string `json:"requesterUpiId"`
	Description    *string `json:"description"`
}

// PaymentRequestLink is the WhatsApp message prepared for one participant
type PaymentRequestLink struct {
	Index   int                  `json:"index"`
	URL     string               `json:"url"`
	Message string               `json:"message"`
	Amount  string               `json:"amount"`
	Status  models.PaymentStatus `json:"status"`
}

// UPILinkInput overrides the defaults taken from the split form. Zero values fall back to the form.
type UPILinkInput struct {
	UpiID  string  `json:"upiId"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

func (s *Service) initialForm(ctx context.Context, userID int64) models.SplitExpenseForm {
	var name string
	if user, err := s.repo.FindUserByID(ctx, userID); err == nil {
		name = user.Username
	}
	return models.NewSplitExpenseForm(name)
}

// loadForm must be called with splitMu held.
func (s *Service) loadForm(ctx context.Context, userID int64) models.SplitExpenseForm {
	form := formstore.Restore(ctx, s.store, splitFormKey(userID), s.initialForm(ctx, userID))
	if len(form.Participants) == 0 {
		form.Participants = []models.Participant{{}}
	}
	if form.PaymentStatus == nil {
		form.PaymentStatus = map[int]models.PaymentStatus{}
	}
	return form
}

// mutateSplit applies fn to the stored form and persists the result when fn succeeds.
func (s *Service) mutateSplit(ctx context.Context, userID int64, fn func(form *models.SplitExpenseForm) error) (models.SplitExpenseForm, error) {
	s.splitMu.Lock()
	defer s.splitMu.Unlock()

	form := s.loadForm(ctx, userID)
	if err := fn(&form); err != nil {
		return form, err
	}
	s.store.Persist(ctx, splitFormKey(userID), form)
	return form, nil
}

// SplitForm returns the user's current split form
func (s *Service) SplitForm(ctx context.Context, userID int64) models.SplitExpenseForm {
	s.splitMu.Lock()
	defer s.splitMu.Unlock()
	return s.loadForm(ctx, userID)
}

// UpdateSplitForm edits the form's scalar fields
func (s *Service) UpdateSplitForm(ctx context.Context, userID int64, patch SplitFormPatch) models.SplitExpenseForm {
	form, _ := s.mutateSplit(ctx, userID, func(form *models.SplitExpenseForm) error {
		if patch.TotalAmount != nil {
			form.TotalAmount = *patch.TotalAmount
		}
		if patch.RequesterName != nil {
			form.RequesterName = *patch.RequesterName
		}
		if patch.RequesterUpiID != nil {
			form.RequesterUpiID = *patch.RequesterUpiID
		}
		if patch.Description != nil {
			form.Description = *patch.Description
		}
		return nil
	})
	return form
}

// ClearSplitForm discards the stored form and returns a fresh one
func (s *Service) ClearSplitForm(ctx context.Context, userID int64) models.SplitExpenseForm {
	s.splitMu.Lock()
	defer s.splitMu.Unlock()
	return formstore.Clear(ctx, s.store, splitFormKey(userID), s.initialForm(ctx, userID))
}

// AddParticipant appends an empty participant
func (s *Service) AddParticipant(ctx context.Context, userID int64) models.SplitExpenseForm {
	form, _ := s.mutateSplit(ctx, userID, func(form *models.SplitExpenseForm) error {
		split.AddParticipant(form)
		return nil
	})
	return form
}

// UpdateParticipant sets one field of a participant
func (s *Service) UpdateParticipant(ctx context.Context, userID int64, index int, field, value string) (models.SplitExpenseForm, error) {
	return s.mutateSplit(ctx, userID, func(form *models.SplitExpenseForm) error {
		return split.UpdateParticipant(form, index, field, value)
	})
}

// RemoveParticipant removes a participant and reindexes payment statuses
func (s *Service) RemoveParticipant(ctx context.Context, userID int64, index int) (models.SplitExpenseForm, error) {
	return s.mutateSplit(ctx, userID, func(form *models.SplitExpenseForm) error {
		return split.RemoveParticipant(form, index)
	})
}

// RequestPayment builds the WhatsApp request for a participant and marks it
// requested. Nothing is persisted when the link cannot be built.
func (s *Service) RequestPayment(ctx context.Context, userID int64, index int) (*PaymentRequestLink, error) {
	var link *PaymentRequestLink
	_, err := s.mutateSplit(ctx, userID, func(form *models.SplitExpenseForm) error {
		req, err := split.PrepareRequest(*form, index)
		if err != nil {
			return err
		}

		tracker := split.NewTracker(form.PaymentStatus)
		if err := tracker.MarkRequested(index); err != nil {
			return err
		}
		url, err := deeplink.BuildWhatsAppRequestLink(req.Participant.PhoneNumber, req.Participant.Name,
			req.RequesterName, req.Amount, req.Reason, req.RequesterUpiID)
		if err != nil {
			return err
		}
		form.PaymentStatus = tracker.Statuses()

		link = &PaymentRequestLink{
			Index:   index,
			URL:     url,
			Message: deeplink.RequestMessage(req.Participant.Name, req.RequesterName, req.Amount, req.Reason, req.RequesterUpiID),
			Amount:  deeplink.FormatAmount(req.Amount),
			Status:  models.PaymentRequested,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", userID).Infof("Payment requested from participant %d", index)
	return link, nil
}

// MarkPaid records that a participant has paid
func (s *Service) MarkPaid(ctx context.Context, userID int64, index int) (models.SplitExpenseForm, error) {
	return s.mutateSplit(ctx, userID, func(form *models.SplitExpenseForm) error {
		if index < 0 || index >= len(form.Participants) {
			return split.ErrIndexOutOfRange
		}
		tracker := split.NewTracker(form.PaymentStatus)
		if err := tracker.MarkPaid(index); err != nil {
			return err
		}
		form.PaymentStatus = tracker.Statuses()
		return nil
	})
}

// SplitSummary returns the derived split view and the current validation problems
func (s *Service) SplitSummary(ctx context.Context, userID int64) (split.Summary, []split.FieldError) {
	form := s.SplitForm(ctx, userID)
	return split.Summarize(form), split.ValidateForm(form)
}

// UPIPaymentLink builds a UPI pay link, by default for the requester's per-person share
func (s *Service) UPIPaymentLink(ctx context.Context, userID int64, in UPILinkInput) (string, error) {
	form := s.SplitForm(ctx, userID)
	if in.UpiID == "" {
		in.UpiID = form.RequesterUpiID
	}
	if in.Name == "" {
		in.Name = form.RequesterName
	}
	if in.Amount == 0 {
		in.Amount = split.Amount(form.TotalAmount, form.Participants)
	}
	if in.Note == "" {
		in.Note = form.Description
	}
	return deeplink.BuildUPIPaymentLink(in.UpiID, in.Name, in.Amount, in.Note)
}
