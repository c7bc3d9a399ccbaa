package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/finance-service/internal/ai"
	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/formstore"
	"github.com/Dan9191/finance-service/internal/ledger"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("resource does not belong to user")
)

// Repository is the persistence the service depends on
type Repository interface {
	ledger.Source

	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)
	FindAccountOwner(ctx context.Context, accountID int64) (int64, error)

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	CreateTransactions(ctx context.Context, txs []models.Transaction) error
	ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)

	UpsertBudget(ctx context.Context, budget *models.Budget) error
}

var _ Repository = (*repository.Repository)(nil)

// Service handles business logic
type Service struct {
	repo      Repository
	log       *logrus.Logger
	config    *config.Config
	store     *formstore.Store
	ledger    *ledger.Aggregator
	generator ai.Generator
	guard     *ai.Guard
	now       func() time.Time

	splitMu sync.Mutex

	latestMu sync.RWMutex
	latest   map[int64]*ReportResult
}

// NewService initializes a new service
func NewService(repo Repository, log *logrus.Logger, cfg *config.Config, store *formstore.Store, generator ai.Generator) *Service {
	return &Service{
		repo:      repo,
		log:       log,
		config:    cfg,
		store:     store,
		ledger:    ledger.NewAggregator(repo),
		generator: generator,
		guard:     ai.NewGuard(),
		now:       time.Now,
		latest:    make(map[int64]*ReportResult),
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// Users returns every registered user
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}
