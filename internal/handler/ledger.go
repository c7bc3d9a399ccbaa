package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/finance-service/internal/export"
	"github.com/Dan9191/finance-service/internal/ledger"
	"github.com/Dan9191/finance-service/internal/service"
)

type createAccountRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req createAccountRequest
	if !decode(w, r, &req) {
		return
	}
	account, err := h.svc.CreateAccount(r.Context(), uid, req.Name, req.Currency)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// ListAccounts returns the caller's accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	accounts, err := h.svc.ListAccounts(r.Context(), uid)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// CreateTransaction books a transaction
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req service.TransactionInput
	if !decode(w, r, &req) {
		return
	}
	tx, err := h.svc.CreateTransaction(r.Context(), uid, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// ListTransactions returns the caller's latest transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txs, err := h.svc.ListTransactions(r.Context(), uid, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// ImportTransactions books the entries of a camt.053 statement sent as the request body
func (h *Handler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	accountID, err := strconv.ParseInt(r.URL.Query().Get("account_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	n, err := h.svc.ImportStatement(r.Context(), uid, accountID, http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": n})
}

type budgetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SetBudget sets the caller's monthly budget
func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req budgetRequest
	if !decode(w, r, &req) {
		return
	}
	budget, err := h.svc.SetBudget(r.Context(), uid, req.Amount)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

// monthParam reads ?month=YYYY-MM, defaulting to the current month
func monthParam(w http.ResponseWriter, r *http.Request) (ledger.Period, bool) {
	label := r.URL.Query().Get("month")
	if label == "" {
		return ledger.MonthPeriod(time.Now()), true
	}
	p, err := ledger.ParseMonth(label, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return ledger.Period{}, false
	}
	return p, true
}

// ExportReport streams the month's summary and transactions as XLSX
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	period, ok := monthParam(w, r)
	if !ok {
		return
	}
	data, txs, err := h.svc.MonthActivity(r.Context(), uid, period)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(period.Label())+`"`)
	if err := export.Write(w, data, txs); err != nil {
		h.log.WithError(err).Error("Failed to write export")
	}
}
