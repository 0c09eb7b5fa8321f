package validation

import (
	"errors"
	"net/mail"
	"strings"
)

const maxEmailLength = 254

// ValidateEmail checks an address that booking confirmations and newsletter
// mail will be sent to. Display-name forms ("Ada <ada@example.com>") are
// rejected, and the domain must contain a dot.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("is required")
	}
	if len(email) > maxEmailLength {
		return errors.New("must be at most 254 characters")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return errors.New("must be a plain address like name@example.com")
	}

	_, domain, _ := strings.Cut(addr.Address, "@")
	if !strings.Contains(strings.Trim(domain, "."), ".") {
		return errors.New("must use a full domain such as example.com")
	}

	return nil
}
