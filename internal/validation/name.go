package validation

import (
	"errors"
	"strings"
)

// ValidateName validates a person's name as entered on the booking form
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateTitle validates titles of goals, steps, habits, metrics and content
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if len([]rune(trimmed)) > 200 {
		return errors.New("title is too long (max 200 characters)")
	}

	return nil
}
