// Package screen holds per-client screen state. Every value in this package
// is owned by the shared uiloop.Loop and must only be touched from tasks
// running on it.
package screen

import (
	"context"
	"time"

	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/form"
)

const (
	LabelLogin         = "Login"
	LabelCreateAccount = "Create Account"
	LabelSignUp        = "SignUp"
	NewUserPrompt      = "New User?"
	CreateAccountInfo  = "Please enter a valid email and a password to create your account."
)

// FieldName identifies one of the login screen's inputs.
type FieldName string

const (
	FieldEmail    FieldName = "email"
	FieldPassword FieldName = "password"
)

// Login is the state behind one client's login screen.
type Login struct {
	ID       string
	Email    *form.Field
	Password *form.Field
	Mode     auth.Mode

	controller *auth.Controller
	lastSeen   time.Time
}

// NewLogin creates an empty login screen that submits through controller.
func NewLogin(id string, controller *auth.Controller) *Login {
	return &Login{
		ID:         id,
		Email:      form.NewEmailField(""),
		Password:   form.NewPasswordField(""),
		Mode:       auth.SignIn,
		controller: controller,
	}
}

// Field returns the named field, or nil for an unknown name.
func (l *Login) Field(name FieldName) *form.Field {
	switch name {
	case FieldEmail:
		return l.Email
	case FieldPassword:
		return l.Password
	default:
		return nil
	}
}

// ToggleMode switches between signing in and creating an account.
func (l *Login) ToggleMode() {
	if l.Mode == auth.SignIn {
		l.Mode = auth.SignUp
		return
	}
	l.Mode = auth.SignIn
}

// CanSubmit reports whether the submit button is enabled.
func (l *Login) CanSubmit() bool {
	return l.Email.IsValid() && l.Password.IsValid()
}

// SubmitLabel is the text of the submit button for the current mode.
func (l *Login) SubmitLabel() string {
	if l.Mode == auth.SignUp {
		return LabelCreateAccount
	}
	return LabelLogin
}

// ToggleLabel is the text of the link that switches modes.
func (l *Login) ToggleLabel() string {
	if l.Mode == auth.SignUp {
		return LabelLogin
	}
	return LabelSignUp
}

// ApplyForm takes values posted by a full form submission. Submitting counts
// as having visited both fields, so their errors become visible.
func (l *Login) ApplyForm(email, password string) {
	for _, f := range []struct {
		field *form.Field
		value string
	}{{l.Email, email}, {l.Password, password}} {
		f.field.SetFocused(true)
		f.field.SetValue(f.value)
		f.field.SetFocused(false)
	}
}

// Submit hands the current fields to the auth controller.
func (l *Login) Submit(ctx context.Context, done auth.Completion) auth.Outcome {
	return l.controller.Submit(ctx, l.Mode, l.Email, l.Password, done)
}

// Busy reports whether a sign-up from this screen is awaiting its result.
func (l *Login) Busy() bool {
	return l.controller.SignUpInFlight()
}

// State is the part of a login screen kept across server restarts.
// Passwords are never persisted.
type State struct {
	Email        form.Snapshot `json:"email"`
	PasswordSeen bool          `json:"password_seen"`
	Mode         string        `json:"mode"`
}

// Save captures the screen's persistent state.
func (l *Login) Save() State {
	return State{
		Email:        l.Email.Snapshot(),
		PasswordSeen: l.Password.EverFocused(),
		Mode:         l.Mode.String(),
	}
}

// Load restores state captured by Save.
func (l *Login) Load(s State) {
	l.Email.Restore(s.Email)
	l.Password.Restore(form.Snapshot{EverFocused: s.PasswordSeen})
	if mode, err := auth.ParseMode(s.Mode); err == nil {
		l.Mode = mode
	}
}
