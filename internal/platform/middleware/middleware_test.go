// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/loopdex/internal/platform/constants"
	"github.com/taibuivan/loopdex/internal/platform/ctxutil"
	"github.com/taibuivan/loopdex/internal/platform/middleware"
	"github.com/taibuivan/loopdex/internal/platform/sec"
)

type fakeVerifier struct {
	claims *sec.AuthClaims
}

func (verifier fakeVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return verifier.claims, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestRequireRole checks the 401/403/200 ladder behind Authenticate.
*/
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		header string
		role   sec.UserRole
		want   int
	}{
		{"anonymous", "", sec.RoleMember, http.StatusUnauthorized},
		{"malformed_header", "Token good", sec.RoleMember, http.StatusUnauthorized},
		{"invalid_token", "Bearer nope", sec.RoleMember, http.StatusUnauthorized},
		{"member_is_not_moderator", "Bearer good", sec.RoleMember, http.StatusForbidden},
		{"moderator_allowed", "Bearer good", sec.RoleModerator, http.StatusOK},
		{"admin_outranks_moderator", "Bearer good", sec.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := fakeVerifier{claims: &sec.AuthClaims{UserID: "u-1", Role: string(tt.role)}}
			handler := middleware.Authenticate(verifier)(middleware.RequireRole(sec.RoleModerator)(okHandler()))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.want, serve(handler, request).Code)
		})
	}
}

/*
TestAuthenticate_InjectsActor exposes the actor to downstream handlers.
*/
func TestAuthenticate_InjectsActor(t *testing.T) {
	verifier := fakeVerifier{claims: &sec.AuthClaims{UserID: "u-7", Role: string(sec.RoleAdmin)}}

	var seen sec.Actor
	handler := middleware.Authenticate(verifier)(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen, _ = ctxutil.GetActor(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "bearer good")
	serve(handler, request)

	assert.Equal(t, sec.Actor{ID: "u-7", Role: sec.RoleAdmin}, seen)
}

/*
TestAuthenticate_NilVerifier lets every request through anonymously.
*/
func TestAuthenticate_NilVerifier(t *testing.T) {
	handler := middleware.Authenticate(nil)(middleware.RequireAuth(okHandler()))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good")

	assert.Equal(t, http.StatusUnauthorized, serve(handler, request).Code)
}

/*
TestRateLimit rejects requests beyond the burst for one IP only.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.0001, 2)(okHandler())

	request := func(ip string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(constants.HeaderXRealIP, ip)
		return serve(handler, r).Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2"))

	limited := httptest.NewRequest(http.MethodGet, "/", nil)
	limited.Header.Set(constants.HeaderXRealIP, "10.0.0.1")
	recorder := serve(handler, limited)
	assert.Equal(t, "10000", recorder.Header().Get("Retry-After"))
	assert.Contains(t, recorder.Body.String(), "RATE_LIMITED")
}

/*
TestCORS allows only the configured origin suffix outside development.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(false, "loopdex.app")(okHandler())

	allowed := httptest.NewRequest(http.MethodGet, "/", nil)
	allowed.Header.Set(constants.HeaderOrigin, "https://web.loopdex.app")
	assert.Equal(t, "https://web.loopdex.app", serve(handler, allowed).Header().Get("Access-Control-Allow-Origin"))

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Header.Set(constants.HeaderOrigin, "https://evil.example")
	assert.Empty(t, serve(handler, denied).Header().Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/", nil)
	preflight.Header.Set(constants.HeaderOrigin, "https://web.loopdex.app")
	assert.Equal(t, http.StatusNoContent, serve(handler, preflight).Code)
}

/*
TestRequestID echoes a client ID and generates one when absent.
*/
func TestRequestID(t *testing.T) {
	handler := middleware.RequestID()(okHandler())

	withID := httptest.NewRequest(http.MethodGet, "/", nil)
	withID.Header.Set(constants.HeaderXRequestID, "abc-123")
	assert.Equal(t, "abc-123", serve(handler, withID).Header().Get(constants.HeaderXRequestID))

	without := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Len(t, serve(handler, without).Header().Get(constants.HeaderXRequestID), 36)
}
