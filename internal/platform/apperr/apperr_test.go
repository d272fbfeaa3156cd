// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/loopdex/internal/platform/apperr"
)

func TestConstructors_StatusAndCode(t *testing.T) {
	tests := []struct {
		err    *apperr.AppError
		code   string
		status int
	}{
		{apperr.NotFound("Item"), apperr.CodeNotFound, http.StatusNotFound},
		{apperr.Unauthorized("no token"), apperr.CodeUnauthorized, http.StatusUnauthorized},
		{apperr.Forbidden("not yours"), apperr.CodeForbidden, http.StatusForbidden},
		{apperr.Conflict("busy"), apperr.CodeConflict, http.StatusConflict},
		{apperr.ValidationError("bad"), apperr.CodeValidation, http.StatusBadRequest},
		{apperr.RateLimited(3), apperr.CodeRateLimited, http.StatusTooManyRequests},
		{apperr.StorageFailure(errors.New("io")), apperr.CodeStorageFailure, http.StatusInternalServerError},
		{apperr.Internal(errors.New("boom")), apperr.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}

	assert.Equal(t, "Item not found", apperr.NotFound("Item").Message)
}

/*
TestWithOpAndKey copy the error instead of mutating shared values.
*/
func TestWithOpAndKey(t *testing.T) {
	base := apperr.NotFound("Tag")
	tagged := base.WithOp("find_tag").WithKey("fox")

	assert.Equal(t, "find_tag", tagged.Op)
	assert.Equal(t, "fox", tagged.Key)
	assert.Empty(t, base.Op)
	assert.Empty(t, base.Key)
}

/*
TestAs_FindsWrappedErrors through fmt.Errorf chains and keeps the cause.
*/
func TestAs_FindsWrappedErrors(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("reconcile add phase: %w", apperr.StorageFailure(cause))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeStorageFailure, ae.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, apperr.IsCode(wrapped, apperr.CodeStorageFailure))

	assert.Nil(t, apperr.As(cause))
	assert.False(t, apperr.IsCode(nil, apperr.CodeNotFound))
}
