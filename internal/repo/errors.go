package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store-level failure classes. Functions in this package wrap driver errors
// with one of these so callers can test with errors.Is and still see the
// original driver message.
var (
	// ErrNotFound is returned when a requested record does not exist.
	// It aliases gorm.ErrRecordNotFound for convenience.
	ErrNotFound = gorm.ErrRecordNotFound

	// ErrInvalidInput is a value of the wrong type or format for its column.
	ErrInvalidInput = errors.New("store: invalid input")
	// ErrMissingField is a NULL written to a NOT NULL column.
	ErrMissingField = errors.New("store: missing required field")
	// ErrForeignKey is a write referencing a row that does not exist.
	ErrForeignKey = errors.New("store: foreign key violation")
)

// Postgres SQLSTATE codes.
var pgClasses = map[string]error{
	"22P02": ErrInvalidInput, // invalid_text_representation
	"22003": ErrInvalidInput, // numeric_value_out_of_range
	"22007": ErrInvalidInput, // invalid_datetime_format
	"22008": ErrInvalidInput, // datetime_field_overflow
	"23502": ErrMissingField, // not_null_violation
	"23503": ErrForeignKey,   // foreign_key_violation
}

// SQLite extended result codes.
var sqliteClasses = map[int]error{
	787:  ErrForeignKey,   // SQLITE_CONSTRAINT_FOREIGNKEY
	1299: ErrMissingField, // SQLITE_CONSTRAINT_NOTNULL
	275:  ErrInvalidInput, // SQLITE_CONSTRAINT_CHECK
	3091: ErrInvalidInput, // SQLITE_CONSTRAINT_DATATYPE
	20:   ErrInvalidInput, // SQLITE_MISMATCH
}

// Driver message fragments, for errors that carry no structured code.
var messageClasses = []struct {
	fragment string
	class    error
}{
	{"foreign key constraint", ErrForeignKey},
	{"not null constraint failed", ErrMissingField},
	{"violates not-null constraint", ErrMissingField},
	{"invalid input syntax", ErrInvalidInput},
	{"datatype mismatch", ErrInvalidInput},
	{"out of range", ErrInvalidInput},
}

type sqliteCoder interface{ Code() int }

// classify maps a driver error to one of the store failure classes. Errors it
// does not recognise, and ErrNotFound, are returned unchanged.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if class, ok := pgClasses[pgErr.Code]; ok {
			return fmt.Errorf("%w: %s", class, pgErr.Message)
		}
		return err
	}

	var coded sqliteCoder
	if errors.As(err, &coded) {
		if class, ok := sqliteClasses[coded.Code()]; ok {
			return fmt.Errorf("%w: %v", class, err)
		}
	}

	// glebarez/sqlite often returns plain-text errors for constraint violations.
	low := strings.ToLower(err.Error())
	for _, m := range messageClasses {
		if strings.Contains(low, m.fragment) {
			return fmt.Errorf("%w: %v", m.class, err)
		}
	}
	return err
}
