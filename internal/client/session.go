// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client is a Go consumer of the Bookshelf HTTP API.

# Session Model

A [Session] is either Anonymous or Authenticated. The current-user view is
decoded from the stored token without verifying its signature: it is for
display only, and the server re-verifies every request.

	Anonymous     --SignIn ok-->                  Authenticated
	Authenticated --SignOut-->                    Anonymous (token discarded, no server call)
	Authenticated --local expiry / 401 / 403-->   Anonymous
*/
package client

import (
	"errors"
	"sync"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// State is the client-visible authentication state.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (state State) String() string {
	if state == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// ErrExpiredToken is returned when adopting a token whose exp has passed.
var ErrExpiredToken = errors.New("client: token is expired")

// Session holds the bearer token and its decoded claims.
//
// It is safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	store  TokenStore
	token  string
	claims *sec.AuthClaims
	now    func() time.Time
}

// NewSession creates an Anonymous session over store. Call [Session.Rehydrate]
// to recover a persisted token.
func NewSession(store TokenStore) *Session {
	return &Session{store: store, now: time.Now}
}

// WithClock replaces the time source used for expiry checks.
func (session *Session) WithClock(now func() time.Time) *Session {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.now = now
	return session
}

/*
Rehydrate recovers the session from the token store. It never contacts the
server.

Description: An absent token yields Anonymous. A malformed or expired token,
or an unreadable store entry, is removed from the store and also yields
Anonymous.

Returns:
  - *sec.AuthClaims: The current-user view, or nil when Anonymous
  - error: Only store I/O failures; the session is Anonymous in that case
*/
func (session *Session) Rehydrate() (*sec.AuthClaims, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	session.token, session.claims = "", nil

	token, err := session.store.Load()
	if errors.Is(err, ErrCorruptToken) {
		return nil, session.store.Clear()
	}
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	claims, err := session.decode(token)
	if err != nil {
		return nil, session.store.Clear()
	}

	session.token, session.claims = token, claims
	return claims, nil
}

/*
SignIn adopts a freshly issued token and persists it.

Returns:
  - *sec.AuthClaims: The decoded current-user view
  - error: Malformed or already expired token, or a store failure
*/
func (session *Session) SignIn(token string) (*sec.AuthClaims, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	claims, err := session.decode(token)
	if err != nil {
		return nil, err
	}
	if err := session.store.Save(token); err != nil {
		return nil, err
	}

	session.token, session.claims = token, claims
	return claims, nil
}

// SignOut discards the token locally. The server is not contacted.
func (session *Session) SignOut() error {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.dropLocked()
}

// Reject drops the session after the server refused the token.
// A token that changed since the request was sent is left alone.
func (session *Session) Reject(token string) error {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.token == "" || session.token != token {
		return nil
	}
	return session.dropLocked()
}

// Token returns the bearer token to attach, dropping it first if it has
// expired locally.
func (session *Session) Token() (string, bool) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.token == "" {
		return "", false
	}
	if session.expiredLocked(session.claims) {
		_ = session.dropLocked()
		return "", false
	}
	return session.token, true
}

// CurrentUser returns the display-only user view, or nil when Anonymous.
func (session *Session) CurrentUser() *sec.AuthClaims {
	if _, ok := session.Token(); !ok {
		return nil
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.claims == nil {
		return nil
	}
	clone := *session.claims
	return &clone
}

// State reports Anonymous or Authenticated, observing local expiry.
func (session *Session) State() State {
	if _, ok := session.Token(); ok {
		return Authenticated
	}
	return Anonymous
}

func (session *Session) decode(token string) (*sec.AuthClaims, error) {
	claims, err := sec.DecodeUnverified(token)
	if err != nil {
		return nil, err
	}
	if session.expiredLocked(claims) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}

func (session *Session) expiredLocked(claims *sec.AuthClaims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return !session.now().Before(claims.ExpiresAt.Time)
}

func (session *Session) dropLocked() error {
	session.token, session.claims = "", nil
	return session.store.Clear()
}
