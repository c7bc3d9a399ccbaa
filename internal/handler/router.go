package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/middleware"
)

// NewRouter wires every route
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(h.log))

	// Public routes
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	auth := r.PathPrefix("/").Subrouter()
	auth.Use(middleware.AuthMiddleware(cfg))

	auth.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	auth.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	auth.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	auth.HandleFunc("/transactions", h.CreateTransaction).Methods(http.MethodPost)
	auth.HandleFunc("/transactions/import", h.ImportTransactions).Methods(http.MethodPost)
	auth.HandleFunc("/budget", h.SetBudget).Methods(http.MethodPut)

	auth.HandleFunc("/split/form", h.GetSplitForm).Methods(http.MethodGet)
	auth.HandleFunc("/split/form", h.UpdateSplitForm).Methods(http.MethodPut)
	auth.HandleFunc("/split/form", h.ClearSplitForm).Methods(http.MethodDelete)
	auth.HandleFunc("/split/summary", h.SplitSummary).Methods(http.MethodGet)
	auth.HandleFunc("/split/participants", h.AddParticipant).Methods(http.MethodPost)
	auth.HandleFunc("/split/participants/{index:[0-9]+}", h.UpdateParticipant).Methods(http.MethodPatch)
	auth.HandleFunc("/split/participants/{index:[0-9]+}", h.RemoveParticipant).Methods(http.MethodDelete)
	auth.HandleFunc("/split/participants/{index:[0-9]+}/request", h.RequestPayment).Methods(http.MethodPost)
	auth.HandleFunc("/split/participants/{index:[0-9]+}/paid", h.MarkPaid).Methods(http.MethodPost)
	auth.HandleFunc("/split/upi-link", h.UPILink).Methods(http.MethodPost)

	auth.HandleFunc("/insights/advice", h.Advice).Methods(http.MethodPost)
	auth.HandleFunc("/insights/report", h.MonthlyReport).Methods(http.MethodGet)
	auth.HandleFunc("/insights/report/latest", h.LatestReport).Methods(http.MethodGet)
	auth.HandleFunc("/insights/anomalies", h.Anomalies).Methods(http.MethodGet)
	auth.HandleFunc("/reports/export", h.ExportReport).Methods(http.MethodGet)

	return r
}
