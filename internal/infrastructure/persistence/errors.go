package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ims/backend/internal/domain/shared"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translateError maps low-level Postgres errors onto domain errors.
// The gorm postgres driver is pgx-based, so driver errors surface as
// *pgconn.PgError. Unique violations become ALREADY_EXISTS;
// serialization failures and deadlocks become CONCURRENCY_CONFLICT so
// callers can retry.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return shared.ErrAlreadyExists
		case pgSerializationFailure, pgDeadlockDetected:
			return shared.ErrConcurrencyConflict
		}
	}
	return err
}
