package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/config"
	"github.com/nfrund/bookreader/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// IdentityStore signs readers in and up through SurrealDB record access.
// Record sign-in changes the auth state of the connection it runs on, so
// every call uses its own short-lived connection instead of the shared,
// root-authenticated one.
type IdentityStore struct {
	dial   func(ctx context.Context) (*surrealdb.DB, error)
	ns     string
	dbName string
	access string
}

// NewIdentityStore creates an IdentityStore using the access method named by
// cfg.GetDBAccess() (DEFINE ACCESS ... ON DATABASE TYPE RECORD).
func NewIdentityStore(cfg config.Provider) *IdentityStore {
	return &IdentityStore{
		dial:   func(ctx context.Context) (*surrealdb.DB, error) { return dialScoped(ctx, cfg) },
		ns:     cfg.GetDBNs(),
		dbName: cfg.GetDBDb(),
		access: cfg.GetDBAccess(),
	}
}

func (s *IdentityStore) withConn(ctx context.Context, fn func(db *surrealdb.DB) error) error {
	db, err := s.dial(ctx)
	if err != nil {
		return NewDBError(err, "open identity connection")
	}
	defer db.Close(context.WithoutCancel(ctx))
	return fn(db)
}

func (s *IdentityStore) credentials(email, password string) map[string]any {
	return map[string]any{
		"ns":       s.ns,
		"db":       s.dbName,
		"ac":       s.access,
		"email":    email,
		"password": password,
	}
}

// SignUp implements auth.IdentityProvider.
func (s *IdentityStore) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	var session auth.Session
	err := s.withConn(ctx, func(db *surrealdb.DB) error {
		token, err := db.SignUp(ctx, s.credentials(email, password))
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				return domain.ErrUserAlreadyExists
			}
			return fmt.Errorf("sign up failed: %w", err)
		}
		session, err = s.session(ctx, db, token, email)
		return err
	})
	if err != nil {
		return auth.Session{}, err
	}
	slog.InfoContext(ctx, "Successfully signed up user", "email", email)
	return session, nil
}

// SignIn implements auth.IdentityProvider.
func (s *IdentityStore) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	var session auth.Session
	err := s.withConn(ctx, func(db *surrealdb.DB) error {
		token, err := db.SignIn(ctx, s.credentials(email, password))
		if err != nil {
			if isCredentialError(err) {
				return domain.ErrInvalidCredentials
			}
			return fmt.Errorf("sign in failed: %w", err)
		}
		session, err = s.session(ctx, db, token, email)
		return err
	})
	if err != nil {
		return auth.Session{}, err
	}
	slog.InfoContext(ctx, "Successfully signed in user", "email", email)
	return session, nil
}

// session resolves the record id behind a freshly issued token.
func (s *IdentityStore) session(ctx context.Context, db *surrealdb.DB, token, email string) (auth.Session, error) {
	user, err := currentUser(ctx, db)
	if err != nil {
		return auth.Session{}, err
	}
	return auth.Session{UserID: user.IDString(), Email: email, Token: token}, nil
}

// Authenticate implements domain.Authenticator: it validates a session token
// and returns the associated user.
func (s *IdentityStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}
	var user *domain.User
	err := s.withConn(ctx, func(db *surrealdb.DB) error {
		if err := db.Authenticate(ctx, token); err != nil {
			return domain.ErrInvalidCredentials
		}
		var err error
		user, err = currentUser(ctx, db)
		return err
	})
	return user, err
}

// currentUser reads the record the connection is authenticated as.
func currentUser(ctx context.Context, db *surrealdb.DB) (*domain.User, error) {
	users, err := Query[domain.User](ctx, db, "SELECT * FROM $auth", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	if len(users) == 0 || users[0].ID == nil {
		return nil, ErrNoSession
	}

	user := &users[0]
	user.Password = ""
	return user, nil
}

// credentialRejections are the messages SurrealDB uses when a record access
// sign-in matches no account or the password is wrong.
var credentialRejections = []string{
	"no record was returned",
	"invalid record credentials",
	"there was a problem with authentication",
}

// isCredentialError recognises the driver's rejection of a record sign-in.
// Transport and server failures do not match and surface as errors.
func isCredentialError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range credentialRejections {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
