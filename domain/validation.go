package domain

import (
	"fmt"
	"regexp"
)

// PhoneMaxLength is the stored width of a phone number
const PhoneMaxLength = 12

var phonePattern = regexp.MustCompile(`^989\d{2}\s*?\d{3}\s*?\d{4}$`)

// ValidatePhone checks a phone against the accepted national format
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("%w: phone must be set", ErrInvalidPhone)
	}
	if len(phone) > PhoneMaxLength {
		return fmt.Errorf("%w: at most %d characters", ErrInvalidPhone, PhoneMaxLength)
	}
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// PasswordMinLength is the shortest accepted two-step password
const PasswordMinLength = 8

// ValidateNewPassword checks a new two-step password and its confirmation
func ValidateNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < PasswordMinLength {
		return ErrPasswordTooShort
	}
	return nil
}
