package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// EmailPattern is a pragmatic email shape check. Deliverability is the
// mailer's problem; this only rejects obvious garbage at the boundary.
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CNICPattern matches a national identity number: exactly 13 digits.
var CNICPattern = regexp.MustCompile(`^\d{13}$`)

const (
	// MinPasswordLen is the password complexity floor.
	MinPasswordLen = 6
	// MaxEmailLen keeps unbounded input out of the unique index.
	MaxEmailLen = 254
)

// ValidateEmail checks the email shape. The caller is expected to have
// lowercased the address already; uniqueness is case-insensitive.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email format is invalid")
	}
	return nil
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword enforces the minimum length floor. No character-class
// rules; length is the only hard requirement.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// ValidateCNIC checks the 13-digit national id format.
func ValidateCNIC(cnic string) error {
	if cnic == "" {
		return fmt.Errorf("cnic cannot be empty")
	}
	if !CNICPattern.MatchString(cnic) {
		return fmt.Errorf("cnic must be exactly 13 digits")
	}
	return nil
}
