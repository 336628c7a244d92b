package auth

import (
	"errors"
	"fmt"

	"github.com/nfrund/bookreader/internal/domain"
)

// Mode selects which identity operation a submission performs.
type Mode int

const (
	// SignIn authenticates an existing account.
	SignIn Mode = iota
	// SignUp creates a new account.
	SignUp
)

func (m Mode) String() string {
	switch m {
	case SignIn:
		return "signin"
	case SignUp:
		return "signup"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps the form and CLI spellings onto a Mode. The empty string is
// SignIn.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "signin", "login":
		return SignIn, nil
	case "signup", "register":
		return SignUp, nil
	default:
		return SignIn, fmt.Errorf("unknown auth mode %q", s)
	}
}

// Status is the lifecycle state of a submission.
type Status int

const (
	// Idle means no submission was issued.
	Idle Status = iota
	// Pending means the identity provider call is in flight.
	Pending
	// Success means the identity provider accepted the credentials.
	Success
	// Rejected means the attempt failed; Outcome.Reason says why.
	Rejected
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of a submission attempt.
type Outcome struct {
	Status  Status
	Mode    Mode
	Reason  string
	Session Session
	Err     error
}

// Credentials is the transient email/password pair of one submission.
type Credentials struct {
	Email    string
	Password string
}

// Session identifies the account the identity provider signed in.
type Session struct {
	UserID string
	Email  string
	Token  string
}

// User-facing reasons for rejected attempts.
const (
	ReasonInvalidCredentials = "Invalid email or password."
	ReasonUserExists         = "A user with this email already exists."
	ReasonSignUpFailed       = "Could not create your account."
	ReasonSignInFailed       = "Could not sign you in."
)

// RejectionReason turns an identity provider error into a message that is
// safe to show the user.
func RejectionReason(mode Mode, err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return ReasonInvalidCredentials
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return ReasonUserExists
	case mode == SignUp:
		return ReasonSignUpFailed
	default:
		return ReasonSignInFailed
	}
}
