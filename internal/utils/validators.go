package utils

import (
	"regexp"

	"github.com/workspacehq/workspace-api/internal/constants"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPassword enforces the minimum password length.
func IsValidPassword(s string) bool {
	return len(s) >= constants.MinPasswordLength
}
