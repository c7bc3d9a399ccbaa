package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-service/internal/ai"
	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/formstore"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service/servicetest"
)

type fakeRepo = servicetest.Repository

func newFakeRepo() *fakeRepo {
	return servicetest.NewRepository()
}

// scriptedGenerator returns canned replies and records prompts.
type scriptedGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

var _ ai.Generator = (*scriptedGenerator)(nil)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, gen ai.Generator) *Service {
	cfg := &config.Config{JWTSecret: "test-secret"}
	store := formstore.NewStore(formstore.NewMemoryBackend(), testLogger())
	svc := NewService(repo, testLogger(), cfg, store, gen)
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedUser(repo *fakeRepo, name string) int64 {
	u := &models.User{Username: name, Email: fmt.Sprintf("%s@example.com", name)}
	_ = repo.CreateUser(context.Background(), u)
	return u.ID
}
