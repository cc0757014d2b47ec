// Package validation contains input validation rules for account fields.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minFullNameLen = 3
	maxFullNameLen = 50
	minPasswordLen = 6
	// bcrypt ignores everything past 72 bytes
	maxPasswordLen = 72
	maxEmailLen    = 254
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateUsername checks handle length and character set.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("username must be between %d and %d characters", minUsernameLen, maxUsernameLen)
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers and underscores")
	}
	return nil
}

// ValidateFullName checks display name length.
func ValidateFullName(fullName string) error {
	trimmed := strings.TrimSpace(fullName)
	if len(trimmed) < minFullNameLen || len(trimmed) > maxFullNameLen {
		return fmt.Errorf("full name must be between %d and %d characters", minFullNameLen, maxFullNameLen)
	}
	return nil
}

// ValidateEmail checks address shape and length.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLen {
		return fmt.Errorf("email must be at most %d characters", maxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLen)
	}
	return nil
}
