package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/export"
	"github.com/Dan9191/finance-service/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// MonthlyReport is the content of a monthly report e-mail
type MonthlyReport struct {
	Month        string
	Report       *models.AIReport
	Data         *models.MonthlyReportData
	Transactions []models.Transaction
}

// SendMonthlyReport e-mails the AI report with the month's XLSX export attached
func (s *Sender) SendMonthlyReport(to, username string, r MonthlyReport) error {
	e, err := s.buildMonthlyReport(to, username, r)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send monthly report to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) buildMonthlyReport(to, username string, r MonthlyReport) (*email.Email, error) {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your financial report for %s", r.Month)
	e.Text = []byte(reportBody(username, r))

	if r.Data != nil {
		var buf bytes.Buffer
		if err := export.Write(&buf, r.Data, r.Transactions); err != nil {
			return nil, fmt.Errorf("failed to build attachment: %w", err)
		}
		if _, err := e.Attach(&buf, export.FileName(r.Month), export.ContentType); err != nil {
			return nil, fmt.Errorf("failed to attach report: %w", err)
		}
	}
	return e, nil
}

func reportBody(username string, r MonthlyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", username)

	if r.Data != nil {
		cur := r.Data.CurrentMonth
		fmt.Fprintf(&b, "Income: %s\nExpenses: %s\nNet: %s\n\n",
			cur.TotalIncome.StringFixed(2), cur.TotalExpenses.StringFixed(2), cur.NetIncome.StringFixed(2))
	}

	if r.Report != nil {
		b.WriteString(r.Report.MonthlySummary + "\n")
		section(&b, "Key observations", r.Report.KeyObservations)
		if len(r.Report.ProblemAreas) > 0 {
			b.WriteString("\nProblem areas:\n")
			for _, p := range r.Report.ProblemAreas {
				fmt.Fprintf(&b, "- %s: %s (%s)\n", p.Category, p.Issue, p.Impact)
			}
		}
		section(&b, "Recommendations", r.Report.AIRecommendations)
		section(&b, "Next month", r.Report.NextMonthActionPlan)
	}

	b.WriteString("\nBest regards,\nFinance Service")
	return b.String()
}

func section(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
