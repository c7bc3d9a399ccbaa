package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Dan9191/finance-service/internal/ai"
	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/formstore"
	"github.com/Dan9191/finance-service/internal/handler"
	"github.com/Dan9191/finance-service/internal/integrations/gemini"
	"github.com/Dan9191/finance-service/internal/scheduler"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/Dan9191/finance-service/internal/utils/email"
)

const shutdownTimeout = 15 * time.Second

var errNoAPIKey = errors.New("gemini API key is not configured")

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, closeStore := a.service()
			defer closeStore()

			if a.cfg.ReportSchedule != "" {
				sched, err := scheduler.New(a.cfg.ReportSchedule, svc, email.NewSender(a.cfg, a.log), a.log)
				if err != nil {
					return err
				}
				sched.Start()
				defer func() { <-sched.Stop().Done() }()
			}

			addr := fmt.Sprintf(":%s", a.cfg.Port)
			server := &http.Server{
				Addr:         addr,
				Handler:      handler.NewRouter(handler.NewHandler(svc, a.log), a.cfg),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 90 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Infof("Starting server on %s", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			a.log.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}
			return nil
		},
	}
}

// service assembles the form store, the AI generator and the service layer
func (a *app) service() (*service.Service, func()) {
	store, closeStore := openFormStore(a.cfg, a.log)

	var generator ai.Generator
	client, err := gemini.NewClient(gemini.Config{
		APIKey:  a.cfg.GeminiAPIKey,
		Model:   a.cfg.GeminiModel,
		BaseURL: a.cfg.GeminiBaseURL,
	}, a.log)
	if err != nil {
		a.log.WithError(err).Warn("AI insights are disabled")
		generator = ai.GeneratorFunc(func(context.Context, string) (string, error) {
			return "", errNoAPIKey
		})
	} else {
		generator = client
	}

	return service.NewService(a.repo, a.log, a.cfg, store, generator), closeStore
}

// openFormStore opens the SQLite form store. When the file cannot be opened
// the store runs in memory only and forms do not survive a restart.
func openFormStore(cfg *config.Config, log *logrus.Logger) (*formstore.Store, func()) {
	var opts []formstore.Option
	if key := cfg.EncryptionKeyBytes(); key != nil {
		opts = append(opts, formstore.WithEncryption(key))
	}

	backend, err := formstore.NewSQLiteBackend(cfg.FormStorePath)
	if err != nil {
		log.WithError(err).Warn("Form store is not durable, keeping split forms in memory")
		return formstore.NewStore(nil, log, opts...), func() {}
	}
	closeStore := func() {
		if err := backend.Close(); err != nil {
			log.WithError(err).Warn("Failed to close form store")
		}
	}
	return formstore.NewStore(backend, log, opts...), closeStore
}
