// Package repository provides the gorm data access layer.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrAlreadyExists is returned when a unique pair insert found an existing row.
var ErrAlreadyExists = errors.New("record already exists")

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// containsPattern builds a LIKE argument for a case-insensitive substring match.
func containsPattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}

// likeEscape is appended to every LIKE built from containsPattern.
const likeEscape = ` ESCAPE '\'`
