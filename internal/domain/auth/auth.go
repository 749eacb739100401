// Package auth implements account registration, login, and bearer session
// resolution for the storefront.
package auth

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Sentinel errors for authentication flows.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionNotFound    = errors.New("session not found")
)

// Session is an opaque bearer token bound to a user account.
type Session struct {
	Token     uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionRepository defines persistence operations for sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	// GetByToken returns ErrSessionNotFound for unknown tokens.
	GetByToken(ctx context.Context, token uuid.UUID) (*Session, error)
	Delete(ctx context.Context, token uuid.UUID) error
}

// Credentials are the inputs to Register and Login.
type Credentials struct {
	Email    string
	Password string
}
