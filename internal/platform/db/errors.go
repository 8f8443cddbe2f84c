package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Classify maps a storage error onto the shared taxonomy. Unique violations
// become ErrDuplicate (the sole source of duplicate errors; there is no
// application-level pre-check), foreign key violations become ErrConflict and
// missing rows become ErrNotFound. Anything else passes through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %v", shared.ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %v", shared.ErrDuplicate, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %v", shared.ErrConflict, err)
		}
	}
	return err
}

// ConstraintName extracts the violated constraint name, when present.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
