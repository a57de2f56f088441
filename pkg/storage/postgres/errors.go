package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	CodeForeignKeyViolation  = "23503"
	CodeUniqueViolation      = "23505"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"

	// Class 08 covers every connection exception.
	_connectionExceptionClass = "08"
)

// ErrorCode returns the SQLSTATE carried by err, or "" when err did not
// come from the server.
func ErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsConnectionException(err error) bool {
	return strings.HasPrefix(ErrorCode(err), _connectionExceptionClass)
}

// IsForeignKeyViolation reports whether err is an insert, update or delete
// rejected by a foreign key.
func IsForeignKeyViolation(err error) bool {
	return ErrorCode(err) == CodeForeignKeyViolation
}
