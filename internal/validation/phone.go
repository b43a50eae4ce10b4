package validation

import (
	"errors"
	"regexp"
)

var phoneRe = regexp.MustCompile(`^[0-9]{10,15}$`)

// Phone validates a contact phone number: digits only, 10 to 15 characters.
func Phone(phone string) error {
	if phone == "" {
		return errors.New("phone number is required")
	}

	if !phoneRe.MatchString(phone) {
		return errors.New("phone number must be 10 to 15 digits")
	}

	return nil
}
