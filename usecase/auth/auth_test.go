package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskline/backend/domain"
)

type fakeUserRepo struct {
	users []*domain.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByName(_ context.Context, name string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Name == user.Name || u.Email == user.Email {
			return domain.ErrDuplicateUser
		}
	}
	user.CreatedAt = time.Now()
	r.users = append(r.users, user)
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, session *domain.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func newTestUseCase() (*UseCase, *fakeUserRepo, *fakeSessionRepo) {
	users := &fakeUserRepo{}
	sessions := newFakeSessionRepo()
	uc := New(users, sessions, nil, nil, Config{SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost})
	return uc, users, sessions
}

func TestRegister_Valid(t *testing.T) {
	uc, users, _ := newTestUseCase()

	user, err := uc.Register(context.Background(), "alice1", "alice@x.com", "secret1", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected a generated user id")
	}
	if len(users.users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(users.users))
	}
	if string(user.PasswordHash) == "secret1" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("secret1")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegister_MultibyteName(t *testing.T) {
	uc, users, _ := newTestUseCase()

	// 10 characters but 30 bytes; the limits count characters.
	if _, err := uc.Register(context.Background(), strings.Repeat("語", 10), "alice@x.com", "secret1", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users.users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(users.users))
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		confirm  string
	}{
		{"short username", "abc", "alice@x.com", "secret1", "secret1"},
		{"short multibyte username", "日本語", "alice@x.com", "secret1", "secret1"},
		{"long username", strings.Repeat("a", 26), "alice@x.com", "secret1", "secret1"},
		{"long multibyte username", strings.Repeat("語", 26), "alice@x.com", "secret1", "secret1"},
		{"short email", "alice1", "a@b", "secret1", "secret1"},
		{"long email", "alice1", strings.Repeat("a", 35) + "@x.com", "secret1", "secret1"},
		{"malformed email", "alice1", "not-an-email", "secret1", "secret1"},
		{"short password", "alice1", "alice@x.com", "abc", "abc"},
		{"long password", "alice1", "alice@x.com", strings.Repeat("p", 41), strings.Repeat("p", 41)},
		{"confirm mismatch", "alice1", "alice@x.com", "secret1", "secret2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, users, _ := newTestUseCase()
			_, err := uc.Register(context.Background(), tt.username, tt.email, tt.password, tt.confirm)
			if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(users.users) != 0 {
				t.Error("no user should be stored on validation failure")
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	uc, users, _ := newTestUseCase()

	if _, err := uc.Register(context.Background(), "alice1", "alice@x.com", "secret1", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same username", "alice1", "other@x.com"},
		{"same email", "bob123", "alice@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(context.Background(), tt.username, tt.email, "secret1", "secret1")
			if !domain.IsDomainError(err, domain.ErrCodeConflict) {
				t.Fatalf("expected duplicate error, got %v", err)
			}
			if len(users.users) != 1 {
				t.Errorf("user table changed, got %d rows", len(users.users))
			}
		})
	}
}

func TestLogin(t *testing.T) {
	uc, _, _ := newTestUseCase()
	if _, err := uc.Register(context.Background(), "alice1", "alice@x.com", "secret1", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := uc.Login(context.Background(), "alice1", "secret1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Name != "alice1" {
			t.Errorf("got user %q", user.Name)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Login(context.Background(), "alice1", "wrong11")
		if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := uc.Login(context.Background(), "nobody1", "secret1")
		if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := uc.Login(context.Background(), "", "")
		if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestSessions(t *testing.T) {
	uc, _, sessions := newTestUseCase()
	user, err := uc.Register(context.Background(), "alice1", "alice@x.com", "secret1", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session, err := uc.CreateSession(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.UserID != user.ID {
		t.Errorf("session bound to %q, want %q", session.UserID, user.ID)
	}

	got, err := uc.GetSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != session.ID {
		t.Errorf("got session %q", got.ID)
	}

	t.Run("unknown user", func(t *testing.T) {
		if _, err := uc.CreateSession(context.Background(), "missing"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("expired session evicted", func(t *testing.T) {
		session.ExpiresAt = time.Now().Add(-time.Minute)
		if _, err := uc.GetSession(context.Background(), session.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if _, ok := sessions.sessions[session.ID]; ok {
			t.Error("expired session should be deleted")
		}
	})

	t.Run("sliding renewal", func(t *testing.T) {
		session, err := uc.CreateSession(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		session.ExpiresAt = time.Now().Add(10 * time.Minute)

		got, err := uc.GetSession(context.Background(), session.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if time.Until(got.ExpiresAt) < 50*time.Minute {
			t.Errorf("expiry not renewed, %v left", time.Until(got.ExpiresAt))
		}
	})

	t.Run("revoke", func(t *testing.T) {
		session, err := uc.CreateSession(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := uc.RevokeSession(context.Background(), session.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.GetSession(context.Background(), session.ID); err == nil {
			t.Error("revoked session still resolvable")
		}
	})
}
