package domain

import "unicode/utf8"

const (
	MinNameLength     = 3
	MaxNameLength     = 16
	MinPasswordLength = 4
)

// ValidateName checks squad and account names. Length is counted in runes.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return ErrInvalidName
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
