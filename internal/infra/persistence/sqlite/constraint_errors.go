package sqlite

import (
	"strings"

	"gorm.io/gorm"

	"taskhub/internal/errors"
)

// isUniqueConstraintViolation reports whether the error is a SQLite unique
// constraint failure. The pure-Go driver surfaces these as formatted strings
// rather than a typed error, and GORM additionally translates some of them
// to ErrDuplicatedKey.
func isUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()

	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
