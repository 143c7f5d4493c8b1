package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsMalformedID(t *testing.T) {
	badCast := &pgconn.PgError{Code: invalidTextRepresentation, Message: `invalid input syntax for type uuid: "nope"`}
	if !isMalformedID(badCast) {
		t.Fatal("a uuid cast failure must count as a malformed id")
	}
	if !isMalformedID(fmt.Errorf("scan: %w", badCast)) {
		t.Fatal("wrapped cast failures must still be detected")
	}
	if isMalformedID(&pgconn.PgError{Code: foreignKeyViolation}) {
		t.Fatal("foreign key violations are a different failure")
	}
	if isMalformedID(errors.New("connection refused")) {
		t.Fatal("plain errors must pass through untouched")
	}
	if isMalformedID(nil) {
		t.Fatal("nil is not an error")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !isForeignKeyViolation(&pgconn.PgError{Code: foreignKeyViolation}) {
		t.Fatal("expected a foreign key violation match")
	}
	if isForeignKeyViolation(&pgconn.PgError{Code: invalidTextRepresentation}) {
		t.Fatal("cast failures are not foreign key violations")
	}
}
