// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction and the JSON body decoding pattern
so handlers stay uniform.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/loopdex/internal/platform/apperr"
	"github.com/taibuivan/loopdex/internal/platform/ctxutil"
	"github.com/taibuivan/loopdex/internal/platform/sec"
	"github.com/taibuivan/loopdex/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies; the largest legitimate body is a
// full tag list.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request, trimmed.
*/
func Param(request *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(request, name))
}

/*
RequiredActor returns the authenticated catalog actor.

Returns:
  - sec.Actor: The acting user and role
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredActor(request *http.Request) (sec.Actor, error) {
	actor, ok := ctxutil.GetActor(request.Context())
	if !ok {
		return sec.Actor{}, apperr.Unauthorized("Authentication required")
	}
	return actor, nil
}
