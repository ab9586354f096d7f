// Package pgerr maps PostgreSQL driver errors onto the storage sentinels in
// ports. Both pgx and lib/pq errors are understood.
package pgerr

import (
	"errors"

	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
	UniqueViolation      = "23505"
	CheckViolation       = "23514"
)

// Code returns the SQLSTATE carried by err, or "".
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// Classify marks err with ports.ErrSerializationConflict or
// ports.ErrUniqueViolation when its SQLSTATE calls for it. Other errors are
// returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	switch Code(err) {
	case SerializationFailure, DeadlockDetected:
		return errs.Mark(err, ports.ErrSerializationConflict)
	case UniqueViolation:
		return errs.Mark(err, ports.ErrUniqueViolation)
	default:
		return err
	}
}
