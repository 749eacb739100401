package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamehub-store/gamehub/internal/domain/user"
)

const (
	createUserSQL = `INSERT INTO users (id, email, password_hash, created_at)
	VALUES ($1, $2, $3, $4)`
	getUserByEmailSQL = `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`
	getUserByIDSQL    = `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user. A duplicate email maps to user.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, createUserSQL, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("creating user %q: %w", u.Email, err)
	}
	return nil
}

// GetByEmail returns the user with the given email, or user.ErrNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, getUserByEmailSQL, email))
}

// GetByID returns the user with the given id, or user.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, getUserByIDSQL, id))
}

func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}
