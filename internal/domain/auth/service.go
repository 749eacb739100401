package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gamehub-store/gamehub/internal/domain/user"
)

// Sentinel errors for registration input validation.
var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

const (
	minPasswordLen = 8
	sessionTTL     = 30 * 24 * time.Hour
)

// Service implements registration, login, logout, and session resolution.
type Service struct {
	users    user.Repository
	sessions SessionRepository
	cost     int
	now      func() time.Time
}

// NewService creates an auth Service. A non-positive bcrypt cost selects the
// library default.
func NewService(users user.Repository, sessions SessionRepository, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:    users,
		sessions: sessions,
		cost:     bcryptCost,
		now:      time.Now,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, creds Credentials) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrEmailRequired
	}
	if len(creds.Password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a new session token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "look up user")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	sess := &Session{
		Token:     uuid.New(),
		UserID:    u.ID,
		ExpiresAt: now.Add(sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, errors.Wrap(err, "create session")
	}
	return sess, nil
}

// Authenticate resolves a bearer token to its user. Expired sessions are
// deleted on sight.
func (s *Service) Authenticate(ctx context.Context, token uuid.UUID) (*user.User, error) {
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.now().After(sess.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return s.users.GetByID(ctx, sess.UserID)
}

// Logout deletes the session for the given token. Deleting an unknown token
// is not an error.
func (s *Service) Logout(ctx context.Context, token uuid.UUID) error {
	return s.sessions.Delete(ctx, token)
}
