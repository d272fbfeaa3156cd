// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"
	"sync"

	"github.com/taibuivan/loopdex/internal/platform/apperr"
	"github.com/taibuivan/loopdex/internal/platform/ctxutil"
	"github.com/taibuivan/loopdex/internal/platform/respond"
	"github.com/taibuivan/loopdex/internal/platform/sec"
)

// TokenVerifier verifies bearer tokens issued by the identity service.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// actorHolderKey locates the per-request [actorHolder] in the context.
type actorHolderKey struct{}

// actorHolder lets [StructuredLogger] see the actor that [Authenticate]
// attaches further down the chain.
type actorHolder struct {
	mu    sync.Mutex
	value sec.Actor
	set   bool
}

func (holder *actorHolder) store(actor sec.Actor) {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	holder.value, holder.set = actor, true
}

func (holder *actorHolder) actor() (sec.Actor, bool) {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	return holder.value, holder.set
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. No header: the request proceeds as anonymous.
//  2. Malformed header or invalid token: 401 UNAUTHORIZED.
//  3. Valid token: [*sec.AuthClaims] is stored in the request context.
//
// A nil verifier (no JWT_PUBLIC_KEY_PATH configured) treats every request as
// anonymous, which leaves only the public read endpoints usable.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// 1. Anonymous access
			if authHeader == "" || verifier == nil {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Format validation
			scheme, tokenStr, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tokenStr) == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// 3. Token verification
			claims, err := verifier.VerifyToken(strings.TrimSpace(tokenStr))
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// 4. Context injection
			if holder, ok := request.Context().Value(actorHolderKey{}).(*actorHolder); ok {
				holder.store(claims.Actor())
			}
			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetClaims(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose actor ranks below role.
//
// It implies [RequireAuth]: anonymous requests get 401, insufficient roles 403.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			actor, ok := ctxutil.GetActor(request.Context())
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !actor.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
