package auth

import (
	"context"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskline/backend/domain"
	"github.com/taskline/backend/repository"
	"github.com/taskline/backend/usecase"
)

// Field limits enforced at registration.
const (
	minNameLen     = 6
	maxNameLen     = 25
	minEmailLen    = 6
	maxEmailLen    = 40
	minPasswordLen = 6
	maxPasswordLen = 40
)

// dummyHash keeps the bcrypt comparison on the login path even when the
// username does not exist, so both failure modes cost the same.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("taskline-no-such-user"), bcrypt.MinCost)

type Config struct {
	SessionTTL time.Duration
	BcryptCost int
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	audit    usecase.AuditTrail
	logger   *zap.Logger
	cfg      Config
}

func New(users repository.UserRepository, sessions repository.SessionRepository, audit usecase.AuditTrail, logger *zap.Logger, cfg Config) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		audit:    audit,
		logger:   logger,
		cfg:      cfg,
	}
}

// Register validates the submitted fields, hashes the password and persists
// the new user. A name or email collision surfaces as domain.ErrDuplicateUser
// without creating a partial record.
func (uc *UseCase) Register(ctx context.Context, name, email, password, confirm string) (*domain.User, error) {
	if err := validateRegistration(name, email, password, confirm); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.record(ctx, usecase.ActionRegister, user.ID)
	return user, nil
}

// Login checks the name/password pair. Unknown names and wrong passwords
// both report domain.ErrInvalidCredentials.
func (uc *UseCase) Login(ctx context.Context, name, password string) (*domain.User, error) {
	if name == "" || password == "" {
		return nil, domain.NewValidation("Please fill all fields")
	}

	user, err := uc.users.GetByName(ctx, name)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	uc.record(ctx, usecase.ActionLogin, user.ID)
	return user, nil
}

func (uc *UseCase) CreateSession(ctx context.Context, userID string) (*domain.Session, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.cfg.SessionTTL),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}

	// Sliding renewal: once a session passes half its lifetime, push the
	// expiry back out. The session guard re-issues the cookie to match, so
	// an active user never gets logged out mid-visit.
	if time.Until(session.ExpiresAt) < uc.cfg.SessionTTL/2 {
		session.ExpiresAt = time.Now().Add(uc.cfg.SessionTTL)
		if err := uc.sessions.Save(ctx, session); err != nil {
			uc.logger.Warn("session renewal failed", zap.Error(err))
		}
	}
	return session, nil
}

// RevokeSession logs the user out. Revoking an unknown session is harmless.
func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err == nil {
		uc.record(ctx, usecase.ActionLogout, session.UserID)
	}
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) record(ctx context.Context, action, userID string) {
	if uc.audit == nil {
		return
	}
	if err := uc.audit.RecordAuth(ctx, action, userID); err != nil {
		uc.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

// Field limits count characters, not bytes, so multibyte names measure the
// same as their on-screen length.
func validateRegistration(name, email, password, confirm string) error {
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		return domain.NewValidation("Username must be between 6 and 25 characters")
	}
	if n := utf8.RuneCountInString(email); n < minEmailLen || n > maxEmailLen {
		return domain.NewValidation("Email must be between 6 and 40 characters")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return domain.NewValidation("Please enter a valid email address")
	}
	if n := utf8.RuneCountInString(password); n < minPasswordLen || n > maxPasswordLen {
		return domain.NewValidation("Password must be between 6 and 40 characters")
	}
	if password != confirm {
		return domain.NewValidation("Passwords must match")
	}
	return nil
}
