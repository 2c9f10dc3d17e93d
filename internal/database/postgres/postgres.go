// Package postgres implements the URL record store on PostgreSQL.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationErrCode = "23505"

// Constraint names from the urls table schema. They let Create distinguish
// a short code collision from a concurrent submission of the same URL.
const (
	constraintShortCode   = "urls_short_code_key"
	constraintOriginalURL = "urls_original_url_key"
)

// uniqueViolation returns the violated constraint name if err is a
// unique-constraint violation reported by the server.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode {
		return pgErr.ConstraintName, true
	}

	return "", false
}
