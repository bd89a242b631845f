// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/kv-gits/rpm/internal/errors"
)

// NotBlank rejects strings that are empty or consist only of whitespace.
var NotBlank = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
})

// MinMasterPasswordLength is the minimum accepted master password length.
// Short master passwords defeat the memory-hard derivation entirely.
const MinMasterPasswordLength = 8

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// MasterPassword validates a candidate master password.
func MasterPassword(password string) error {
	err := validation.Validate(password,
		validation.Required,
		validation.Length(MinMasterPasswordLength, 1024),
	)
	return WrapValidationError(err)
}
