package handler

import (
	"net/http"

	"github.com/Dan9191/finance-service/internal/service"
	"github.com/Dan9191/finance-service/internal/split"
)

// GetSplitForm returns the caller's split form
func (h *Handler) GetSplitForm(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.SplitForm(r.Context(), uid))
}

// UpdateSplitForm edits the form's scalar fields
func (h *Handler) UpdateSplitForm(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var patch service.SplitFormPatch
	if !decode(w, r, &patch) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.UpdateSplitForm(r.Context(), uid, patch))
}

// ClearSplitForm resets the form
func (h *Handler) ClearSplitForm(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.ClearSplitForm(r.Context(), uid))
}

type splitSummaryResponse struct {
	split.Summary
	Errors []split.FieldError `json:"errors"`
}

// SplitSummary returns the per-person share, request states and validation errors
func (h *Handler) SplitSummary(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	summary, problems := h.svc.SplitSummary(r.Context(), uid)
	if problems == nil {
		problems = []split.FieldError{}
	}
	writeJSON(w, http.StatusOK, splitSummaryResponse{Summary: summary, Errors: problems})
}

// AddParticipant appends an empty participant
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.svc.AddParticipant(r.Context(), uid))
}

type updateParticipantRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateParticipant sets one participant field
func (h *Handler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	idx, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var req updateParticipantRequest
	if !decode(w, r, &req) {
		return
	}
	form, err := h.svc.UpdateParticipant(r.Context(), uid, idx, req.Field, req.Value)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// RemoveParticipant deletes a participant
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	idx, ok := pathIndex(w, r)
	if !ok {
		return
	}
	form, err := h.svc.RemoveParticipant(r.Context(), uid, idx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// RequestPayment returns the WhatsApp link for a participant and marks it requested
func (h *Handler) RequestPayment(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	idx, ok := pathIndex(w, r)
	if !ok {
		return
	}
	link, err := h.svc.RequestPayment(r.Context(), uid, idx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// MarkPaid marks a participant as paid
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	idx, ok := pathIndex(w, r)
	if !ok {
		return
	}
	form, err := h.svc.MarkPaid(r.Context(), uid, idx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// UPILink builds a upi://pay link
func (h *Handler) UPILink(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req service.UPILinkInput
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	link, err := h.svc.UPIPaymentLink(r.Context(), uid, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}
