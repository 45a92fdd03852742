package domain

import (
	"strings"
	"unicode/utf8"

	"catalog/internal/errors"
)

const (
	maxNameLength        = 50
	maxFullNameLength    = 255
	maxCookingTimeLength = 50
	maxDescriptionLength = 500
	maxOwnershipLength   = 5
)

func argumentError(format string, args ...interface{}) error {
	return errors.Newf(errors.ArgumentInvalid, format, args...)
}

// checkLength validates the rune length of an already trimmed value.
func checkLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		return argumentError("%s must contain at least %d characters", field, min)
	}
	if max > 0 && n > max {
		return argumentError("%s must contain at most %d characters", field, max)
	}
	return nil
}

// checkDigits validates a fixed-width numeric code such as an INN or BIK.
func checkDigits(field, value string, width int) error {
	if utf8.RuneCountInString(value) != width {
		return argumentError("%s must contain exactly %d digits", field, width)
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return argumentError("%s must contain exactly %d digits", field, width)
		}
	}
	return nil
}

func validName(value string) (string, error) {
	value = strings.TrimSpace(value)
	if err := checkLength("name", value, 1, maxNameLength); err != nil {
		return "", err
	}
	return value, nil
}
