package form

import (
	"github.com/go-playground/validator/v10"
)

// Validation tags backed by the credential rules, for use in struct tags.
const (
	EmailTag    = "readeremail"
	PasswordTag = "readerpassword"
)

// RegisterTags adds EmailTag and PasswordTag to v.
func RegisterTags(v *validator.Validate) error {
	if err := v.RegisterValidation(EmailTag, func(fl validator.FieldLevel) bool {
		return IsEmailValid(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation(PasswordTag, func(fl validator.FieldLevel) bool {
		return IsPasswordValid(fl.Field().String())
	})
}
