// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
	err    error
	calls  int
}

func (verifier *stubVerifier) VerifyToken(string) (*sec.AuthClaims, error) {
	verifier.calls++
	return verifier.claims, verifier.err
}

func protectedHandler(t *testing.T, verifier middleware.TokenVerifier) http.Handler {
	t.Helper()
	return middleware.RequireAuth(verifier)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := middleware.GetUser(request.Context())
		require.NotNil(t, claims)
		writer.WriteHeader(http.StatusTeapot)
	}))
}

func decodeCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	code, _ := body["code"].(string)
	return code
}

/*
TestRequireAuth_HeaderShapes checks which Authorization values reach the verifier.
*/
func TestRequireAuth_HeaderShapes(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"absent", "", http.StatusUnauthorized, apperr.CodeMissingToken},
		{"basic_scheme", "Basic abc", http.StatusUnauthorized, apperr.CodeMissingToken},
		{"lowercase_keyword", "bearer abc", http.StatusUnauthorized, apperr.CodeMissingToken},
		{"keyword_only", "Bearer ", http.StatusUnauthorized, apperr.CodeMissingToken},
		{"double_space", "Bearer  abc", http.StatusUnauthorized, apperr.CodeMissingToken},
		{"well_formed", "Bearer abc", http.StatusTeapot, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &stubVerifier{claims: &sec.AuthClaims{IdentityID: 1, DisplayName: "Ann"}}
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			protectedHandler(t, verifier).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeCode(t, recorder))
				assert.Zero(t, verifier.calls)
			}
		})
	}
}

/*
TestRequireAuth_VerificationFailure maps any verifier error to 403.
*/
func TestRequireAuth_VerificationFailure(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("signature is invalid")}
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer forged")
	recorder := httptest.NewRecorder()

	protectedHandler(t, verifier).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, apperr.CodeInvalidToken, decodeCode(t, recorder))
}

/*
TestRequireAuth_RealTokens runs the middleware against the real token service.
*/
func TestRequireAuth_RealTokens(t *testing.T) {
	issuedAt := time.Now()
	service, err := sec.NewTokenService("secret")
	require.NoError(t, err)

	token, err := service.WithClock(func() time.Time { return issuedAt }).IssueToken(5, "Eve")
	require.NoError(t, err)

	send := func(verifier middleware.TokenVerifier, token string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()
		protectedHandler(t, verifier).ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusTeapot, send(service, token).Code)

	expired := service.WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) })
	assert.Equal(t, http.StatusForbidden, send(expired, token).Code)

	last := token[len(token)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	altered := token[:len(token)-1] + string(replacement)
	assert.Equal(t, http.StatusForbidden, send(service, altered).Code)
}

func TestBearerToken(t *testing.T) {
	token, ok := middleware.BearerToken("Bearer a.b.c")
	assert.True(t, ok)
	assert.Equal(t, "a.b.c", token)

	_, ok = middleware.BearerToken("Token a.b.c")
	assert.False(t, ok)
}
