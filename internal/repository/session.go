package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamehub-store/gamehub/internal/domain/auth"
)

const (
	createSessionSQL = `INSERT INTO sessions (token, user_id, expires_at, created_at)
	VALUES ($1, $2, $3, $4)`
	getSessionSQL    = `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $1`
	deleteSessionSQL = `DELETE FROM sessions WHERE token = $1`
)

var _ auth.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implements auth.SessionRepository backed by PostgreSQL.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository returns a SessionRepository that uses the given pool.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create persists a new session.
func (r *SessionRepository) Create(ctx context.Context, s *auth.Session) error {
	_, err := r.pool.Exec(ctx, createSessionSQL, s.Token, s.UserID, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetByToken returns the session for the given token, or
// auth.ErrSessionNotFound.
func (r *SessionRepository) GetByToken(ctx context.Context, token uuid.UUID) (*auth.Session, error) {
	var s auth.Session
	err := r.pool.QueryRow(ctx, getSessionSQL, token).
		Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("finding session: %w", err)
	}
	return &s, nil
}

// Delete removes the session for the given token. Unknown tokens are a no-op.
func (r *SessionRepository) Delete(ctx context.Context, token uuid.UUID) error {
	_, err := r.pool.Exec(ctx, deleteSessionSQL, token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
