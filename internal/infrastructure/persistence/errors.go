package persistence

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err was caused by a unique constraint.
// It recognizes pgx driver errors, GORM's translated error, and the
// SQLite message used by in-memory test databases.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}
