// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taibuivan/loopdex/internal/platform/apperr"
	"github.com/taibuivan/loopdex/internal/platform/dberr"
)

/*
TestWrap_Classification maps driver errors onto application error codes.
*/
func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"pgx_no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"gorm_not_found", gorm.ErrRecordNotFound, apperr.CodeNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound},
		{"pg_unique_violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, apperr.CodeConflict},
		{"gorm_duplicated_key", gorm.ErrDuplicatedKey, apperr.CodeConflict},
		{"pg_fk_violation", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, apperr.CodeStorageFailure},
		{"context_cancelled", context.Canceled, apperr.CodeStorageFailure},
		{"generic", errors.New("connection reset"), apperr.CodeStorageFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "find_item")

			ae := apperr.As(wrapped)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
			assert.Equal(t, "find_item", ae.Op)
			assert.ErrorIs(t, wrapped, tt.err, "driver error must stay in the chain")
		})
	}
}

/*
TestWrap_Nil returns nil for nil.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

/*
TestWrap_KeepsExistingAppError only adds the operation name.
*/
func TestWrap_KeepsExistingAppError(t *testing.T) {
	original := apperr.Forbidden("nope")

	wrapped := apperr.As(dberr.Wrap(original, "delete_item"))
	require.NotNil(t, wrapped)
	assert.Equal(t, apperr.CodeForbidden, wrapped.Code)
	assert.Equal(t, "delete_item", wrapped.Op)
	assert.Empty(t, original.Op, "the original must not be mutated")
}

/*
TestWrapKey names the missing resource and carries its key.
*/
func TestWrapKey(t *testing.T) {
	err := dberr.WrapKey(pgx.ErrNoRows, "find_tag", "Tag", "fox")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Tag not found", ae.Message)
	assert.Equal(t, "fox", ae.Key)
	assert.True(t, dberr.IsNotFound(err))
	assert.False(t, dberr.IsConflict(err))
}
