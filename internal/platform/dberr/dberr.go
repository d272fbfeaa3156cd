// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Both storage backends funnel their driver errors through [Wrap]: pgx for
// PostgreSQL and gorm for the embedded SQLite store.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/taibuivan/loopdex/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Classification
//
//   - No rows: NOT_FOUND
//   - Unique violation (SQLSTATE 23505, gorm.ErrDuplicatedKey): CONFLICT
//   - Anything else: STORAGE_FAILURE with the driver error as cause
//
// Errors that are already an [apperr.AppError] only gain the operation name.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if ae := apperr.As(err); ae != nil {
		if ae.Op != "" {
			return ae
		}
		return ae.WithOp(action)
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
		notFound := apperr.NotFound("Resource").WithOp(action)
		notFound.Cause = err
		return notFound
	}

	// 2. Duplicate key mapping
	if isUniqueViolation(err) {
		conflict := apperr.Conflict("Resource already exists").WithOp(action)
		conflict.Cause = err
		return conflict
	}

	// 3. Everything else, including caller-side cancellation, is a storage failure
	return apperr.StorageFailure(err).WithOp(action)
}

// WrapKey is [Wrap] with the entity key attached, and the resource named in
// NOT_FOUND messages.
func WrapKey(err error, action, resource, key string) error {
	wrapped := Wrap(err, action)
	ae := apperr.As(wrapped)
	if ae == nil {
		return wrapped
	}

	ae = ae.WithKey(key)
	if ae.Code == apperr.CodeNotFound {
		ae.Message = resource + " not found"
	}
	return ae
}

// IsNotFound reports whether err was classified as NOT_FOUND.
func IsNotFound(err error) bool {
	return apperr.IsCode(err, apperr.CodeNotFound)
}

// IsConflict reports whether err was classified as a duplicate-key CONFLICT.
func IsConflict(err error) bool {
	return apperr.IsCode(err, apperr.CodeConflict)
}

// SQLite extended result codes for duplicate keys.
const (
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// isUniqueViolation recognises duplicate-key errors from both drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// Untranslated SQLite errors expose their extended code.
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		code := coded.Code()
		return code == sqliteConstraintPrimaryKey || code == sqliteConstraintUnique
	}
	return false
}
