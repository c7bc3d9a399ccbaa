package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dan9191/finance-service/internal/ai"
	"github.com/Dan9191/finance-service/internal/models"
)

const anomalyHistoryMonths = 3

// AdviceResult is the outcome of a financial advice question
type AdviceResult struct {
	Success    bool               `json:"success"`
	Error      ai.ErrorKind       `json:"error,omitempty"`
	Message    string             `json:"message,omitempty"`
	Advice     *string            `json:"advice"`
	Data       *models.AdviceData `json:"data"`
	Superseded bool               `json:"superseded,omitempty"`
}

// ReportResult is the outcome of a monthly report request
type ReportResult struct {
	Success     bool                      `json:"success"`
	Error       ai.ErrorKind              `json:"error,omitempty"`
	Message     string                    `json:"message,omitempty"`
	Report      *models.AIReport          `json:"report"`
	Data        *models.MonthlyReportData `json:"data"`
	Superseded  bool                      `json:"superseded,omitempty"`
	GeneratedAt time.Time                 `json:"generatedAt"`
}

// AnomalyResult is the outcome of a spending anomaly scan
type AnomalyResult struct {
	Success    bool                   `json:"success"`
	Error      ai.ErrorKind           `json:"error,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Insights   []models.AIInsight     `json:"insights"`
	Data       *models.ExpenseHistory `json:"data"`
	Superseded bool                   `json:"superseded,omitempty"`
}

func reportFallback() models.AIReport {
	return models.AIReport{
		MonthlySummary:      "Unable to generate report. Please try again.",
		KeyObservations:     []string{},
		ProblemAreas:        []models.ProblemArea{},
		AIRecommendations:   []string{},
		NextMonthActionPlan: []string{},
	}
}

// FinancialAdvice answers a question about the current month's finances
func (s *Service) FinancialAdvice(ctx context.Context, userID int64, question string) *AdviceResult {
	ticket := s.guard.Begin(fmt.Sprintf("advice:%d", userID))
	log := s.log.WithField("user_id", userID)

	data, err := s.ledger.AdviceData(ctx, userID, s.now())
	if err != nil {
		log.WithError(err).Error("Error generating financial advice")
		return &AdviceResult{Error: ai.GeneralError, Message: message(err, "Failed to generate financial advice")}
	}

	prompt, err := advicePrompt(question, data)
	if err != nil {
		log.WithError(err).Error("Error generating financial advice")
		return &AdviceResult{Error: ai.GeneralError, Message: message(err, "Failed to generate financial advice")}
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		res := &AdviceResult{Error: ai.Classify(err)}
		if res.Error == ai.QuotaExceeded {
			log.WithError(err).Warn("Gemini API quota exceeded")
			res.Message = ai.QuotaMessage
			res.Data = data
		} else {
			log.WithError(err).Error("Error generating financial advice")
			res.Message = message(err, "Failed to generate financial advice")
		}
		res.Superseded = !ticket.Current()
		return res
	}

	return &AdviceResult{Success: true, Advice: &text, Data: data, Superseded: !ticket.Current()}
}

// MonthlyReport generates the report for the month containing month; a zero
// month means the current one. The latest non-superseded report is kept for LatestReport.
func (s *Service) MonthlyReport(ctx context.Context, userID int64, month time.Time) *ReportResult {
	if month.IsZero() {
		month = s.now()
	}
	ticket := s.guard.Begin(fmt.Sprintf("report:%d", userID))

	res := s.GenerateMonthlyReport(ctx, userID, month)
	committed := ticket.Commit(func() {
		if res.Success {
			s.latestMu.Lock()
			s.latest[userID] = res
			s.latestMu.Unlock()
		}
	})
	res.Superseded = !committed
	return res
}

// GenerateMonthlyReport builds the report for the month containing month
// without touching LatestReport or superseding in-flight user requests.
func (s *Service) GenerateMonthlyReport(ctx context.Context, userID int64, month time.Time) *ReportResult {
	res := s.monthlyReport(ctx, userID, month)
	res.GeneratedAt = s.now()
	if res.Error == ai.GeneralError {
		s.log.WithField("user_id", userID).WithField("message", res.Message).Error("Error generating monthly report")
	}
	return res
}

func (s *Service) monthlyReport(ctx context.Context, userID int64, month time.Time) *ReportResult {
	data, err := s.ledger.MonthlyReportData(ctx, userID, month)
	if err != nil {
		return &ReportResult{Error: ai.GeneralError, Message: message(err, "Failed to generate monthly report")}
	}

	prompt, err := reportPrompt(data)
	if err != nil {
		return &ReportResult{Error: ai.GeneralError, Message: message(err, "Failed to generate monthly report")}
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		if ai.Classify(err) == ai.QuotaExceeded {
			s.log.WithError(err).Warn("Gemini API quota exceeded")
			return &ReportResult{Error: ai.QuotaExceeded, Message: ai.QuotaMessage, Data: data}
		}
		return &ReportResult{Error: ai.GeneralError, Message: message(err, "Failed to generate monthly report")}
	}

	report, ok := ai.ParseJSON(text, reportFallback())
	if !ok {
		s.log.WithField("user_id", userID).Error("Error parsing report JSON")
	}
	return &ReportResult{Success: true, Report: &report, Data: data}
}

// LatestReport returns the most recent successful report of the user
func (s *Service) LatestReport(userID int64) (*ReportResult, bool) {
	s.latestMu.RLock()
	defer s.latestMu.RUnlock()
	res, ok := s.latest[userID]
	return res, ok
}

// SpendingAnomalies compares the last three months of expenses and asks for unusual patterns
func (s *Service) SpendingAnomalies(ctx context.Context, userID int64) *AnomalyResult {
	ticket := s.guard.Begin(fmt.Sprintf("anomalies:%d", userID))
	log := s.log.WithField("user_id", userID)

	data, err := s.ledger.ExpenseHistory(ctx, userID, s.now(), anomalyHistoryMonths)
	if err != nil {
		log.WithError(err).Error("Error detecting spending anomalies")
		return &AnomalyResult{Error: ai.GeneralError, Message: message(err, "Failed to detect spending anomalies"), Insights: []models.AIInsight{}}
	}

	prompt, err := anomalyPrompt(data)
	if err != nil {
		log.WithError(err).Error("Error detecting spending anomalies")
		return &AnomalyResult{Error: ai.GeneralError, Message: message(err, "Failed to detect spending anomalies"), Insights: []models.AIInsight{}}
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		res := &AnomalyResult{Error: ai.Classify(err), Insights: []models.AIInsight{}}
		if res.Error == ai.QuotaExceeded {
			log.WithError(err).Warn("Gemini API quota exceeded")
			res.Message = ai.QuotaMessage
			res.Data = data
		} else {
			log.WithError(err).Error("Error detecting spending anomalies")
			res.Message = message(err, "Failed to detect spending anomalies")
		}
		res.Superseded = !ticket.Current()
		return res
	}

	insights, ok := ai.ParseJSON(text, []models.AIInsight{})
	if !ok {
		log.Error("Error parsing insights JSON")
	}
	if insights == nil {
		insights = []models.AIInsight{}
	}
	return &AnomalyResult{Success: true, Insights: insights, Data: data, Superseded: !ticket.Current()}
}

func message(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func indentJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize financial data: %w", err)
	}
	return string(b), nil
}
