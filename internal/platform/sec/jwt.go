// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenIssuer] and [middleware.TokenVerifier]
// interfaces.
//
// # Token Model
//
// Tokens are HS256 JWTs signed with a single server-held secret. The server
// keeps no session state: possession of an unexpired, correctly signed token
// is authentication.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

// ErrMissingSecret is the cause attached to the configuration error raised
// when no signing secret is available.
var ErrMissingSecret = errors.New("sec: token signing secret is not configured")

// AuthClaims represents the payload embedded inside a bearer token.
//
// Only iat and exp are populated among the registered claims, so the encoded
// payload is exactly {identity_id, display_name, iat, exp}.
type AuthClaims struct {
	IdentityID  int64  `json:"identity_id"`
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
//
// It is immutable after construction and safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a [TokenService] for the given secret.
//
// An empty secret is a configuration error: the service never falls back to a
// default key and never issues unsigned tokens.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, apperr.Configuration(ErrMissingSecret)
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    constants.AccessTokenTTL,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads the current time from now.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now
	return &clone
}

// IssueToken signs a claim set for an already-verified identity.
//
// The token is valid from now until now + [constants.AccessTokenTTL].
func (service *TokenService) IssueToken(identityID int64, displayName string) (string, error) {
	if service == nil || len(service.secret) == 0 {
		return "", apperr.Configuration(ErrMissingSecret)
	}

	currentTime := service.clock()
	claims := AuthClaims{
		IdentityID:  identityID,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and expiry of a token in a single call.
//
// Segments are decoded strictly so that no two different strings verify as
// the same token.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	if service == nil || len(service.secret) == 0 {
		return nil, apperr.Configuration(ErrMissingSecret)
	}

	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(service.clock),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}

// clock returns the current time from the configured source.
func (service *TokenService) clock() time.Time {
	if service.now == nil {
		return time.Now()
	}
	return service.now()
}

// # Unverified Decoding

// DecodeUnverified extracts the claim set without checking the signature.
//
// It exists for holders that do not own the secret (clients rendering the
// current user). Its result must never drive an authorization decision.
func DecodeUnverified(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("sec: malformed token: %w", err)
	}

	return claims, nil
}
