package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/nfrund/bookreader/internal/config"
	"github.com/sethvargo/go-retry"
	"github.com/surrealdb/surrealdb.go"
)

// connectAttempts bounds how many times NewDB retries a failed connection.
const connectAttempts = 5

// NewDB creates and configures a new SurrealDB connection, retrying with
// exponential backoff while the database is unreachable.
func NewDB(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewExponential(200*time.Millisecond))

	var db *surrealdb.DB
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err := connect(ctx, cfg)
		if err != nil {
			slog.WarnContext(ctx, "SurrealDB connection attempt failed",
				"db_url", redactDBURL(cfg.GetDBURL()), "error", err)
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to surrealdb: %w", err)
	}

	slog.Info("Successfully signed in to SurrealDB", "ns", cfg.GetDBNs(), "db", cfg.GetDBDb())
	return db, nil
}

func connect(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.GetDBURL())
	if err != nil {
		return nil, err
	}

	authData := &surrealdb.Auth{
		Username: cfg.GetDBUser(),
		Password: cfg.GetDBPass(),
	}
	if _, err = db.SignIn(ctx, authData); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	if err = db.Use(ctx, cfg.GetDBNs(), cfg.GetDBDb()); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/db: %w", err)
	}
	return db, nil
}

// dialScoped opens an unauthenticated connection bound to the configured
// namespace and database, for record-level sign-in.
func dialScoped(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.GetDBURL())
	if err != nil {
		return nil, err
	}
	if err := db.Use(ctx, cfg.GetDBNs(), cfg.GetDBDb()); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/db: %w", err)
	}
	return db, nil
}

// redactDBURL strips credentials from a connection URL before it is logged.
func redactDBURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	if u.User != nil {
		u.User = url.User("redacted")
	}
	return u.String()
}
