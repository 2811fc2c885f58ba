package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	// Postgres and sqlite phrase the violation differently.
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
