// Package scheduler runs the monthly report e-mail job.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-service/internal/ledger"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/Dan9191/finance-service/internal/utils/email"
)

// Reporter produces the per-user report content
type Reporter interface {
	Users(ctx context.Context) ([]models.User, error)
	GenerateMonthlyReport(ctx context.Context, userID int64, month time.Time) *service.ReportResult
	MonthActivity(ctx context.Context, userID int64, period ledger.Period) (*models.MonthlyReportData, []models.Transaction, error)
}

// Mailer delivers a monthly report
type Mailer interface {
	SendMonthlyReport(to, username string, r email.MonthlyReport) error
}

// Scheduler e-mails every user the report of the previous month
type Scheduler struct {
	cron     *cron.Cron
	reporter Reporter
	mailer   Mailer
	log      *logrus.Logger
	now      func() time.Time
}

// New registers the report job under a standard 5-field cron spec
func New(spec string, reporter Reporter, mailer Mailer, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		reporter: reporter,
		mailer:   mailer,
		log:      log,
		now:      time.Now,
	}
	_, err := s.cron.AddFunc(spec, func() {
		sent, err := s.SendMonthlyReports(context.Background(), s.now())
		if err != nil {
			s.log.WithError(err).Errorf("Monthly report job finished with errors, %d sent", sent)
			return
		}
		s.log.Infof("Monthly report job sent %d reports", sent)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule report job: %w", err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Report scheduler started")
}

// Stop stops the scheduler; the returned context is done when a running job completes
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// SendMonthlyReports reports the month before now to every user. A failure for
// one user does not stop the others; all failures are joined in the error.
func (s *Scheduler) SendMonthlyReports(ctx context.Context, now time.Time) (int, error) {
	users, err := s.reporter.Users(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	period := ledger.MonthPeriod(now).Previous()
	var (
		sent int
		errs []error
	)
	for _, u := range users {
		if err := s.sendOne(ctx, u, period); err != nil {
			s.log.WithError(err).WithField("user_id", u.ID).Error("Failed to send monthly report")
			errs = append(errs, fmt.Errorf("user %d: %w", u.ID, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

func (s *Scheduler) sendOne(ctx context.Context, u models.User, period ledger.Period) error {
	res := s.reporter.GenerateMonthlyReport(ctx, u.ID, period.Start)
	if !res.Success {
		return fmt.Errorf("report not generated: %s: %s", res.Error, res.Message)
	}

	_, txs, err := s.reporter.MonthActivity(ctx, u.ID, period)
	if err != nil {
		return err
	}

	return s.mailer.SendMonthlyReport(u.Email, u.Username, email.MonthlyReport{
		Month:        period.Label(),
		Report:       res.Report,
		Data:         res.Data,
		Transactions: txs,
	})
}
