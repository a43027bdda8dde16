package utils

import "strings"

// SanitizeEmail normalizes an email for storage and lookup: trimmed and
// lowercased, matching the unique index.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
