package form

import "regexp"

// Messages shown for invalid credential fields.
const (
	MsgEmailEmpty    = "Email should not be empty"
	MsgEmailInvalid  = "Please enter valid email"
	MsgPasswordEmpty = "Password should not be empty"
)

var emailPattern = regexp.MustCompile(`^[\w\-\.]+@([\w-]+\.)+[\w-]{2,}$`)

// IsEmailValid reports whether s has the local@domain.tld shape: word
// characters, dots and hyphens before the @, a domain with at least one dot
// and a top-level label of two or more characters.
func IsEmailValid(s string) bool {
	return emailPattern.MatchString(s)
}

// EmailError returns the message for an invalid email value.
func EmailError(s string) string {
	if s == "" {
		return MsgEmailEmpty
	}
	return MsgEmailInvalid
}

// IsPasswordValid accepts any non-empty password.
func IsPasswordValid(s string) bool {
	return s != ""
}

// PasswordError returns the message for an invalid password value.
func PasswordError(s string) string {
	if s == "" {
		return MsgPasswordEmpty
	}
	return ""
}

// NewEmailField creates a field validating email addresses.
func NewEmailField(initial string) *Field {
	return NewField(initial, IsEmailValid, EmailError)
}

// NewPasswordField creates a field requiring a non-empty password.
func NewPasswordField(initial string) *Field {
	return NewField(initial, IsPasswordValid, PasswordError)
}
