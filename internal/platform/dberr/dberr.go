// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

// ErrUniqueViolation marks an insert or update that hit a UNIQUE constraint.
// Repositories wrap it with the violated constraint name via [UniqueViolation].
var ErrUniqueViolation = errors.New("dberr: unique constraint violated")

// UniqueViolationError carries the name of the violated constraint.
type UniqueViolationError struct {
	Constraint string
	Cause      error
}

func (e *UniqueViolationError) Error() string {
	return "dberr: unique constraint " + e.Constraint + " violated"
}

// Is lets errors.Is match [ErrUniqueViolation].
func (e *UniqueViolationError) Is(target error) bool { return target == ErrUniqueViolation }

// Unwrap exposes the driver error.
func (e *UniqueViolationError) Unwrap() error { return e.Cause }

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Mapping
//   - pgx.ErrNoRows → 404 for the named resource.
//   - SQLSTATE 23505 → [*UniqueViolationError] so callers can pick a domain error.
//   - SQLSTATE 23503 → 404 for the referenced resource.
//   - anything else → 500 with the cause kept for logging.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint classification
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return &UniqueViolationError{Constraint: pgError.ConstraintName, Cause: err}
		case pgerrcode.ForeignKeyViolation:
			return apperr.NotFound(resource)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a unique violation on constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var violation *UniqueViolationError
	if !errors.As(err, &violation) {
		return false
	}
	return constraint == "" || violation.Constraint == constraint
}

// IsForeignKeyViolation reports whether the driver error err is a foreign key
// violation on constraint. An empty constraint matches any foreign key.
// It inspects the raw error, before [Wrap].
func IsForeignKeyViolation(err error, constraint string) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) || pgError.Code != pgerrcode.ForeignKeyViolation {
		return false
	}
	return constraint == "" || pgError.ConstraintName == constraint
}
