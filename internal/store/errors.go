package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInUse is returned when a delete is blocked by dependent rows.
	ErrInUse = errors.New("cannot delete: still referenced by other records")
)

// Postgres SQLSTATE codes the store translates into its own taxonomy.
const (
	pgUniqueViolation    = "23505"
	pgForeignKeyViolated = "23503"
	pgExclusionViolation = "23P01"
)

// DuplicateError reports a uniqueness violation on a specific field, so the
// caller can surface it per-field instead of as a generic failure.
type DuplicateError struct {
	Entity string
	Field  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

// translateError maps driver-level constraint failures onto the store's
// typed errors. Unrecognized errors pass through unchanged.
func translateError(err error, entity, uniqueField string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &DuplicateError{Entity: entity, Field: uniqueField}
		case pgForeignKeyViolated:
			return ErrInUse
		}
	}

	// gorm's TranslateError config normalizes the sqlite driver's errors
	// onto the same sentinels, keeping tests on the in-memory database
	// honest about the taxonomy.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateError{Entity: entity, Field: uniqueField}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrInUse
	}
	return err
}

// isExclusionViolation reports whether err is the Postgres overlap-exclusion
// constraint firing on the reservations table.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}
