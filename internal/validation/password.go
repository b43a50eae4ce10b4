package validation

import (
	"errors"
	"unicode"
)

// Password enforces the signup rule: at least 6 characters, letters and
// digits only, with at least one capital letter and one number. The web
// client applies the same rule before calling the identity service.
func Password(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
		default:
			return errors.New("password may only contain letters and numbers")
		}
	}

	if !hasUpper || !hasDigit {
		return errors.New("password must include 1 capital letter and 1 number")
	}

	return nil
}
