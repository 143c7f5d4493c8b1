package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a referenced row does not exist. For comment
// creation it also covers a missing parent ticket, which postgres reports as
// a foreign key violation on insert.
var ErrNotFound = errors.New("record not found")

const (
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

// isMalformedID reports whether postgres rejected an id parameter that does
// not parse as a uuid (SQLSTATE 22P02). Path ids arrive as raw strings; one
// that cannot be a uuid can never match a row, so repositories surface it as
// ErrNotFound rather than a query failure.
func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

// isForeignKeyViolation reports whether the insert hit a missing parent row.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
