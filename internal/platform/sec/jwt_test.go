// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

func newService(t *testing.T, secret string, now time.Time) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(secret)
	require.NoError(t, err)
	return service.WithClock(func() time.Time { return now })
}

// replaceAt returns token with the character at index swapped for another
// base64url character.
func replaceAt(token string, index int) string {
	replacement := byte('A')
	if token[index] == 'A' {
		replacement = 'B'
	}
	return token[:index] + string(replacement) + token[index+1:]
}

/*
TestTokenService_IssueAndVerify checks the round trip and the exact claim payload.
*/
func TestTokenService_IssueAndVerify(t *testing.T) {
	issuedAt := time.Unix(1_700_000_000, 0)
	service := newService(t, "super-secret", issuedAt)

	token, err := service.IssueToken(42, "Ann")
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.IdentityID)
	assert.Equal(t, "Ann", claims.DisplayName)

	// Decode the payload segment by hand to pin the wire shape.
	segments := strings.Split(token, ".")
	require.Len(t, segments, 3)
	raw, err := base64.RawURLEncoding.DecodeString(segments[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Len(t, payload, 4)
	assert.Equal(t, float64(42), payload["identity_id"])
	assert.Equal(t, "Ann", payload["display_name"])
	assert.Equal(t, float64(issuedAt.Unix()), payload["iat"])
	assert.Equal(t, float64(3600), payload["exp"].(float64)-payload["iat"].(float64))
}

/*
TestTokenService_Expiry verifies that tokens are accepted strictly before exp.
*/
func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Unix(1_700_000_000, 0)
	token, err := newService(t, "secret", issuedAt).IssueToken(1, "Ann")
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		isValid bool
	}{
		{"just_issued", issuedAt, true},
		{"one_second_before_exp", issuedAt.Add(time.Hour - time.Second), true},
		{"exactly_at_exp", issuedAt.Add(time.Hour), false},
		{"long_after_exp", issuedAt.Add(24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(t, "secret", tt.at).VerifyToken(token)
			if tt.isValid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, jwt.ErrTokenExpired)
			}
		})
	}
}

/*
TestTokenService_WrongSecret rejects tokens signed under another secret.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	now := time.Now()
	token, err := newService(t, "right-secret", now).IssueToken(7, "Bob")
	require.NoError(t, err)

	_, err = newService(t, "wrong-secret", now).VerifyToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

/*
TestTokenService_TamperedPayload mutates every payload character in turn.
*/
func TestTokenService_TamperedPayload(t *testing.T) {
	service := newService(t, "secret", time.Now())
	token, err := service.IssueToken(7, "Bob")
	require.NoError(t, err)

	headerEnd := strings.Index(token, ".")
	payloadEnd := strings.LastIndex(token, ".")

	for index := headerEnd + 1; index < payloadEnd; index++ {
		_, err := service.VerifyToken(replaceAt(token, index))
		assert.Error(t, err, "mutation at index %d must fail", index)
	}
}

/*
TestTokenService_TamperedSignature alters the last character of the token.
*/
func TestTokenService_TamperedSignature(t *testing.T) {
	service := newService(t, "secret", time.Now())
	token, err := service.IssueToken(7, "Bob")
	require.NoError(t, err)

	_, err = service.VerifyToken(replaceAt(token, len(token)-1))
	assert.Error(t, err)
}

/*
TestTokenService_RejectsOtherAlgorithms refuses unsigned and foreign tokens.
*/
func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	service := newService(t, "secret", time.Now())

	claims := sec.AuthClaims{
		IdentityID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = service.VerifyToken(unsigned)
	assert.Error(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = service.VerifyToken(hs512)
	assert.Error(t, err)
}

/*
TestTokenService_MissingExpiry rejects tokens without an exp claim.
*/
func TestTokenService_MissingExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sec.AuthClaims{IdentityID: 1}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = newService(t, "secret", time.Now()).VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_MissingSecret verifies the configuration failure paths.
*/
func TestTokenService_MissingSecret(t *testing.T) {
	service, err := sec.NewTokenService("")
	assert.Nil(t, service)
	assert.True(t, apperr.HasCode(err, apperr.CodeConfiguration))
	assert.ErrorIs(t, err, sec.ErrMissingSecret)

	var zero sec.TokenService
	token, err := zero.IssueToken(1, "Ann")
	assert.Empty(t, token)
	assert.True(t, apperr.HasCode(err, apperr.CodeConfiguration))
}

/*
TestDecodeUnverified reads claims without the secret and rejects garbage.
*/
func TestDecodeUnverified(t *testing.T) {
	token, err := newService(t, "server-only", time.Now()).IssueToken(9, "Cy")
	require.NoError(t, err)

	claims, err := sec.DecodeUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.IdentityID)
	assert.Equal(t, "Cy", claims.DisplayName)

	_, err = sec.DecodeUnverified("not.a.jwt")
	assert.Error(t, err)
}
