package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/browseterm/browseterm-db/internal/domain"
)

// Postgres error codes we translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// mapWriteErr translates constraint violations on inserts and updates.
// A unique violation becomes ErrDuplicate; a foreign-key violation means
// the caller referenced a row that does not exist.
func mapWriteErr(err error, entity, value string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return domain.NewDuplicateError(entity, pgErr.ConstraintName, value)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s references a missing row (%s): %w", entity, pgErr.ConstraintName, domain.ErrInvalidInput)
	}
	return err
}

// mapDeleteErr translates a foreign-key violation on delete into
// ErrRestricted: some child row still references the target.
func mapDeleteErr(err error, entity, id string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == codeForeignKeyViolation {
		return domain.NewRestrictedError(entity, id)
	}
	return err
}
