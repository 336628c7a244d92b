package domain

import "errors"

// Sentinel errors for the domain layer. Identity providers return them, and
// callers match them with errors.Is to choose a user-facing message.
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials provided")
)
