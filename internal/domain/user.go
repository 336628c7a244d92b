package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// User is an account record as stored by the identity backend.
type User struct {
	ID       *surrealmodels.RecordID `json:"id,omitempty"`
	Email    string                  `json:"email"`
	Password string                  `json:"password,omitempty"`
	Name     *string                 `json:"name,omitempty"`
}

// IDString returns the record id as "table:key", or "" when unset.
func (u *User) IDString() string {
	if u == nil || u.ID == nil {
		return ""
	}
	return u.ID.String()
}

// Authenticator resolves a session token into the signed-in user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*User, error)
}
