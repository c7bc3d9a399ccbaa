package handler

import (
	"net/http"
	"strings"
)

type adviceRequest struct {
	Question string `json:"question"`
}

// Advice answers a financial question. AI failures are reported in the body, not the status.
func (h *Handler) Advice(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req adviceRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.FinancialAdvice(r.Context(), uid, req.Question))
}

// MonthlyReport generates the report for ?month=YYYY-MM
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	period, ok := monthParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.MonthlyReport(r.Context(), uid, period.Start))
}

// LatestReport returns the last successful report
func (h *Handler) LatestReport(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	res, found := h.svc.LatestReport(uid)
	if !found {
		writeError(w, http.StatusNotFound, "no report generated yet")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Anomalies scans recent spending for unusual patterns
func (h *Handler) Anomalies(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.SpendingAnomalies(r.Context(), uid))
}
