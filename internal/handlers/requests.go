package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/nfrund/bookreader/internal/form"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a CustomValidator that also knows the credential tags
// registered by form.RegisterTags.
func NewValidator() *CustomValidator {
	v := validator.New()
	if err := form.RegisterTags(v); err != nil {
		panic(err)
	}
	return &CustomValidator{validator: v}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// LoginRequest is a full submission of the login form. Credential rules are
// enforced by the screen's fields, not here; this only bounds the input.
type LoginRequest struct {
	Email    string `form:"email" validate:"max=254"`
	Password string `form:"password" validate:"max=128"`
	Mode     string `form:"mode" validate:"omitempty,oneof=signin signup"`
}

// FieldEventRequest reports a focus, blur or edit on one login input. The
// field's value is posted under the field's own name.
type FieldEventRequest struct {
	Name  string `param:"name" validate:"required,oneof=email password"`
	Event string `form:"event" validate:"omitempty,oneof=focus blur input change"`
}
