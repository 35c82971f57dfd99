package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ottermap/workflow-system/internal/core/domain"
	"github.com/ottermap/workflow-system/internal/core/ports"
)

// SessionRecorder abstracts the last-issued-token store (Redis).
type SessionRecorder interface {
	Record(ctx context.Context, username, token string, ttl time.Duration) error
}

// AccountService implements registration, login, and admin lookup.
type AccountService struct {
	repo      ports.AccountRepository
	sessions  SessionRecorder
	audit     AuditSink
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, sessions SessionRecorder, audit AuditSink, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{repo: repo, sessions: sessions, audit: audit, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AccountService) Register(ctx context.Context, username, email, password, role string) (*domain.Account, error) {
	if username == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           newID("user"),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		EntityID:   created.ID,
		Action:     domain.AuditAccountRegistered,
		Actor:      created.Username,
		Detail:     created.Role,
		OccurredAt: created.CreatedAt,
	})

	s.log.Info().Str("username", created.Username).Str("role", created.Role).Msg("account registered")
	return created, nil
}

func (s *AccountService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}

	// Overwriting the stored token is what makes sessions single-at-a-time.
	if err := s.repo.UpdateAccessToken(ctx, account.Username, token); err != nil {
		return "", nil, err
	}
	if err := s.sessions.Record(ctx, account.Username, token, s.tokenTTL); err != nil {
		s.log.Warn().Err(err).Str("username", account.Username).Msg("failed to record session token")
	}

	account.AccessToken = token
	s.log.Info().Str("username", account.Username).Msg("login successful")
	return token, account, nil
}

func (s *AccountService) ListAdmins(ctx context.Context) ([]string, error) {
	admins, err := s.repo.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(admins))
	for _, a := range admins {
		names = append(names, a.Username)
	}
	return names, nil
}

func (s *AccountService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  account.ID,
		"username": account.Username,
		"role":     account.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
