// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Implementations must check signature and expiry in the same call.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// RequireAuth gates a route behind a verified bearer token.
//
// # Flow
//  1. Extract the token from 'Authorization: Bearer <token>'.
//  2. If the header is absent or not in that exact form, abort with 401 MISSING_TOKEN.
//  3. Verify signature and expiry; on any failure abort with 403 INVALID_TOKEN.
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// No refresh or sliding expiry happens here.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Extraction ─────────────────────────────────────────────────
			tokenStr, ok := BearerToken(request.Header.Get(constants.HeaderAuthorization))
			if !ok {
				respond.Error(writer, request, apperr.MissingToken())
				return
			}

			// ── 2. Verification ───────────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				if apperr.HasCode(err, apperr.CodeConfiguration) {
					respond.Error(writer, request, err)
					return
				}
				respond.Error(writer, request, apperr.InvalidToken(err))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an Authorization header value.
//
// The scheme keyword must be exactly "Bearer" followed by a single space and
// a non-empty token.
func BearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, constants.BearerPrefix)
	if !found || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the request passed [RequireAuth].
//   - nil otherwise.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}
