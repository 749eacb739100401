// Command seed-db prepares a database for local development: it runs the
// schema migrations and creates a demo account so the storefront is usable
// immediately after `docker compose up`.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/gamehub-store/gamehub/internal/domain/auth"
	"github.com/gamehub-store/gamehub/internal/domain/user"
	"github.com/gamehub-store/gamehub/internal/repository"
)

func main() {
	var (
		databaseURL string
		email       string
		password    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&email, "email", "demo@gamehub.local", "demo account email")
	flag.StringVar(&password, "password", "", "demo account password (or GAMEHUB_SEED_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if password == "" {
		password = os.Getenv("GAMEHUB_SEED_PASSWORD")
	}
	if password == "" {
		slog.Error("password is required: set --password or GAMEHUB_SEED_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, email, password); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed", slog.String("email", email))
}

func run(ctx context.Context, databaseURL, email, password string) error {
	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	users := repository.NewUserRepository(pool)
	sessions := repository.NewSessionRepository(pool)
	svc := auth.NewService(users, sessions, bcrypt.DefaultCost)

	_, err = svc.Register(ctx, auth.Credentials{Email: email, Password: password})
	if errors.Is(err, user.ErrEmailTaken) {
		slog.Info("demo account already exists", slog.String("email", email))
		return nil
	}
	return errors.Wrap(err, "create demo account")
}
