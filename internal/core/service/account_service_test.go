package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := r.accounts[account.Username]; exists {
		return nil, domain.ErrAccountExists
	}
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return nil, domain.ErrAccountExists
		}
	}
	r.accounts[account.Username] = cloneAccount(account)
	return cloneAccount(account), nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	a, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) UpdateAccessToken(_ context.Context, username, token string) error {
	a, ok := r.accounts[username]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.AccessToken = token
	return nil
}

func (r *stubAccountRepo) ListByRole(_ context.Context, role string) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.accounts {
		if a.Role == role {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

type stubSessions struct {
	recorded map[string]string
	err      error
}

func newStubSessions() *stubSessions {
	return &stubSessions{recorded: make(map[string]string)}
}

func (s *stubSessions) Record(_ context.Context, username, token string, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.recorded[username] = token
	return nil
}

func TestAccountService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, newStubSessions(), &recordingAudit{}, "secret", time.Hour, zerolog.Nop())

	account, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass123", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if account.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if account.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", account.Role)
	}
	if !strings.HasPrefix(account.ID, "user_") {
		t.Fatalf("expected user_ prefixed id, got %s", account.ID)
	}
}

func TestAccountService_Register_Validation(t *testing.T) {
	svc := NewAccountService(newStubAccountRepo(), newStubSessions(), &recordingAudit{}, "secret", time.Hour, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "", "a@example.com", "pass", domain.RoleUser); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for missing username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "", "pass", domain.RoleUser); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for missing email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "a@example.com", "", domain.RoleUser); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for missing password, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "a@example.com", "pass", "superuser"); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, newStubSessions(), &recordingAudit{}, "secret", time.Hour, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass", domain.RoleUser); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "other@example.com", "pass", domain.RoleUser); err != domain.ErrAccountExists {
		t.Fatalf("expected ErrAccountExists for duplicate username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "alice@example.com", "pass", domain.RoleUser); err != domain.ErrAccountExists {
		t.Fatalf("expected ErrAccountExists for duplicate email, got %v", err)
	}
}

func TestAccountService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	sessions := newStubSessions()
	svc := NewAccountService(repo, sessions, &recordingAudit{}, "secret", time.Hour, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "admin1", "admin1@example.com", "hunter2", domain.RoleAdmin); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, account, err := svc.Login(context.Background(), "admin1", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if account.AccessToken != token {
		t.Fatalf("expected token mirrored on account")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["username"] != "admin1" || claims["role"] != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %v", claims)
	}

	// Token must be persisted and the session recorded.
	stored, _ := repo.FindByUsername(context.Background(), "admin1")
	if stored.AccessToken != token {
		t.Fatalf("token not persisted on account")
	}
	if sessions.recorded["admin1"] != token {
		t.Fatalf("session not recorded")
	}
}

func TestAccountService_Login_OverwritesPriorToken(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, newStubSessions(), &recordingAudit{}, "secret", time.Hour, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw", domain.RoleUser); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first, _, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	time.Sleep(1100 * time.Millisecond) // exp claim has second resolution
	second, _, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected a fresh token per login")
	}

	stored, _ := repo.FindByUsername(context.Background(), "alice")
	if stored.AccessToken != second {
		t.Fatalf("expected latest token on account, got first=%v", stored.AccessToken == first)
	}
}

func TestAccountService_Login_Failures(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, newStubSessions(), &recordingAudit{}, "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "ghost", "pw"); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw", domain.RoleUser); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "", "pw"); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAccountService_Login_SessionRecordFailureIsNonFatal(t *testing.T) {
	repo := newStubAccountRepo()
	sessions := newStubSessions()
	sessions.err = context.DeadlineExceeded
	svc := NewAccountService(repo, sessions, &recordingAudit{}, "secret", time.Hour, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw", domain.RoleUser); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("login must succeed when session store is down, got %v", err)
	}
}

func TestAccountService_ListAdmins(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, newStubSessions(), &recordingAudit{}, "secret", time.Hour, zerolog.Nop())

	for _, reg := range []struct{ username, email, role string }{
		{"admin1", "a1@example.com", domain.RoleAdmin},
		{"admin2", "a2@example.com", domain.RoleAdmin},
		{"user1", "u1@example.com", domain.RoleUser},
	} {
		if _, err := svc.Register(context.Background(), reg.username, reg.email, "pw", reg.role); err != nil {
			t.Fatalf("register %s failed: %v", reg.username, err)
		}
	}

	names, err := svc.ListAdmins(context.Background())
	if err != nil {
		t.Fatalf("ListAdmins returned error: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 admins, got %d", len(names))
	}
	for _, name := range names {
		if name != "admin1" && name != "admin2" {
			t.Fatalf("unexpected admin %q", name)
		}
	}
}
