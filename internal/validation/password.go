package validation

import (
	"errors"
	"strings"
)

const (
	minPasswordLength = 12
	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes = 72
)

// weakPasswordParts are fragments that make an admin password guessable.
var weakPasswordParts = []string{
	"password", "123456", "qwerty", "letmein", "admin",
	"coach", "lifeos", "booking",
}

// ValidatePassword checks the admin password before it is hashed with
// "do hash-password".
func ValidatePassword(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return errors.New("admin password must be at least 12 characters")
	}
	if len(password) > maxPasswordBytes {
		return errors.New("admin password must not exceed 72 bytes")
	}

	lower := strings.ToLower(password)
	for _, part := range weakPasswordParts {
		if strings.Contains(lower, part) {
			return errors.New("admin password must not contain " + part)
		}
	}
	return nil
}
