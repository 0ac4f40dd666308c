// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/client"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

var issuedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func issue(t *testing.T, identityID int64, name string) string {
	t.Helper()
	tokens, err := sec.NewTokenService("client-secret")
	require.NoError(t, err)
	token, err := tokens.WithClock(func() time.Time { return issuedAt }).IssueToken(identityID, name)
	require.NoError(t, err)
	return token
}

func at(offset time.Duration) func() time.Time {
	return func() time.Time { return issuedAt.Add(offset) }
}

/*
TestSession_Rehydrate covers every stored-token shape at startup.
*/
func TestSession_Rehydrate(t *testing.T) {
	valid := issue(t, 7, "Ann")

	tests := []struct {
		name        string
		stored      string
		clock       func() time.Time
		wantUser    bool
		wantCleared bool
	}{
		{"absent", "", at(time.Minute), false, false},
		{"valid", valid, at(30 * time.Minute), true, false},
		{"expired", valid, at(2 * time.Hour), false, true},
		{"exactly_at_exp", valid, at(time.Hour), false, true},
		{"malformed", "not-a-jwt", at(time.Minute), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &client.MemoryTokenStore{}
			require.NoError(t, store.Save(tt.stored))

			session := client.NewSession(store).WithClock(tt.clock)
			claims, err := session.Rehydrate()
			require.NoError(t, err)

			if tt.wantUser {
				require.NotNil(t, claims)
				assert.Equal(t, int64(7), claims.IdentityID)
				assert.Equal(t, "Ann", claims.DisplayName)
				assert.Equal(t, client.Authenticated, session.State())
			} else {
				assert.Nil(t, claims)
				assert.Equal(t, client.Anonymous, session.State())
			}

			persisted, _ := store.Load()
			if tt.wantCleared {
				assert.Empty(t, persisted)
			} else {
				assert.Equal(t, tt.stored, persisted)
			}
		})
	}
}

func TestSession_RehydrateIgnoresSignature(t *testing.T) {
	tokens, err := sec.NewTokenService("some-other-secret")
	require.NoError(t, err)
	foreign, err := tokens.WithClock(func() time.Time { return issuedAt }).IssueToken(3, "Cy")
	require.NoError(t, err)

	store := &client.MemoryTokenStore{}
	require.NoError(t, store.Save(foreign))

	claims, err := client.NewSession(store).WithClock(at(time.Minute)).Rehydrate()
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, "Cy", claims.DisplayName)
}

func TestSession_Transitions(t *testing.T) {
	store := &client.MemoryTokenStore{}
	clock := issuedAt.Add(time.Minute)
	session := client.NewSession(store).WithClock(func() time.Time { return clock })
	assert.Equal(t, client.Anonymous, session.State())

	token := issue(t, 9, "Bob")
	claims, err := session.SignIn(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.IdentityID)
	assert.Equal(t, client.Authenticated, session.State())

	persisted, _ := store.Load()
	assert.Equal(t, token, persisted)

	require.NoError(t, session.SignOut())
	assert.Equal(t, client.Anonymous, session.State())
	assert.Nil(t, session.CurrentUser())
	persisted, _ = store.Load()
	assert.Empty(t, persisted)

	// Local expiry drops an authenticated session.
	_, err = session.SignIn(token)
	require.NoError(t, err)
	clock = issuedAt.Add(61 * time.Minute)
	_, ok := session.Token()
	assert.False(t, ok)
	persisted, _ = store.Load()
	assert.Empty(t, persisted)
}

func TestSession_SignInRejectsExpiredToken(t *testing.T) {
	store := &client.MemoryTokenStore{}
	session := client.NewSession(store).WithClock(at(3 * time.Hour))

	_, err := session.SignIn(issue(t, 1, "Ann"))
	assert.ErrorIs(t, err, client.ErrExpiredToken)
	assert.Equal(t, client.Anonymous, session.State())
}

func TestSession_RejectOnlyDropsMatchingToken(t *testing.T) {
	session := client.NewSession(&client.MemoryTokenStore{}).WithClock(at(time.Minute))
	token := issue(t, 1, "Ann")
	_, err := session.SignIn(token)
	require.NoError(t, err)

	require.NoError(t, session.Reject("stale-token"))
	assert.Equal(t, client.Authenticated, session.State())

	require.NoError(t, session.Reject(token))
	assert.Equal(t, client.Anonymous, session.State())
}
