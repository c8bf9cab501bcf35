package utils

import (
	"strings"
)

// NormalizeString trims surrounding whitespace from user input.
func NormalizeString(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail canonicalizes an email address for use as a natural key
// (lowercase and trim).
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail performs basic shape validation; real deliverability checks
// are the backend's problem.
func IsValidEmail(email string) bool {
	normalized := NormalizeEmail(email)
	parts := strings.Split(normalized, "@")
	if len(parts) != 2 {
		return false
	}
	return parts[0] != "" && strings.Contains(parts[1], ".")
}
