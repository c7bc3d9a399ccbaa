package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Dan9191/finance-service/internal/ledger"
	"github.com/Dan9191/finance-service/internal/scheduler"
	"github.com/Dan9191/finance-service/internal/utils/email"
)

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Monthly report e-mails",
	}
	cmd.AddCommand(reportsSendCmd())
	return cmd
}

func reportsSendCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "E-mail every user the report for a month (default: last month)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if month != "" {
				p, err := ledger.ParseMonth(month, time.Local)
				if err != nil {
					return err
				}
				now = p.Start.AddDate(0, 1, 0)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			svc, closeStore := a.service()
			defer closeStore()

			spec := a.cfg.ReportSchedule
			if spec == "" {
				spec = "@monthly"
			}
			sched, err := scheduler.New(spec, svc, email.NewSender(a.cfg, a.log), a.log)
			if err != nil {
				return err
			}
			sent, err := sched.SendMonthlyReports(cmd.Context(), now)
			a.log.Infof("Sent %d monthly reports", sent)
			return err
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to report, YYYY-MM")
	return cmd
}
