package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/focus-api/internal/store"
)

// SQLSTATE codes the task schema can raise.
const (
	uniqueViolationCode  = "23505"
	checkViolationCode   = "23514"
	notNullViolationCode = "23502"
	stringTooLongCode    = "22001"
)

// constraintFailure describes how a SQLSTATE code surfaces as a store error.
type constraintFailure struct {
	sentinel error
	label    string
	detail   func(*pgconn.PgError) string
}

func columnOf(e *pgconn.PgError) string     { return e.ColumnName }
func constraintOf(e *pgconn.PgError) string { return e.ConstraintName }

var constraintFailures = map[string]constraintFailure{
	uniqueViolationCode:  {sentinel: store.ErrDuplicate},
	stringTooLongCode:    {store.ErrInvalidEntity, "value too long", columnOf},
	checkViolationCode:   {store.ErrInvalidEntity, "check constraint violation", constraintOf},
	notNullViolationCode: {store.ErrInvalidEntity, "not null violation", columnOf},
}

// MapError translates driver errors into store sentinels, keeping the
// original error in the chain. Errors without a mapping are returned as is.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	failure, ok := constraintFailures[pgErr.Code]
	if !ok {
		return err
	}
	if failure.detail == nil {
		return fmt.Errorf("%w: %v", failure.sentinel, err)
	}
	return fmt.Errorf("%w: %s (%s): %v", failure.sentinel, failure.label, failure.detail(pgErr), err)
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// such as inserting a task id that already exists.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// CheckRowsAffected returns store.ErrNotFound when an UPDATE or DELETE
// touched no rows.
func CheckRowsAffected(result sql.Result, entityName string) error {
	if result == nil {
		return errors.New("nil result provided to CheckRowsAffected")
	}

	n, err := result.RowsAffected()
	switch {
	case err != nil:
		return fmt.Errorf("failed to get rows affected: %w", err)
	case n > 0:
		return nil
	case entityName == "":
		return store.ErrNotFound
	default:
		return fmt.Errorf("%w: %s not found", store.ErrNotFound, entityName)
	}
}
