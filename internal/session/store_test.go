package session

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken()
	require.NoError(t, err)
	second, err := GenerateToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	raw, err := base64.RawURLEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Minute)))
	assert.True(t, s.Expired(s.ExpiresAt))
}

func newSession(token, userID string, ttl time.Duration) Session {
	now := time.Now()
	return Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Create(ctx, newSession("t1", "u1", time.Hour)))

	got, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)

	got, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Delete(ctx, "t1"))
	got, err = store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreExpiryIsLazy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Create(ctx, newSession("stale", "u1", -time.Minute)))

	got, err := store.Get(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreBulkDeletes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Create(ctx, newSession("a1", "alice", time.Hour)))
	require.NoError(t, store.Create(ctx, newSession("a2", "alice", time.Hour)))
	require.NoError(t, store.Create(ctx, newSession("b1", "bob", time.Hour)))

	require.NoError(t, store.DeleteAllForUserExcept(ctx, "alice", "a1"))

	got, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	got, err = store.Get(ctx, "a2")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.DeleteAllForUser(ctx, "alice"))
	got, err = store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// unrelated users are untouched
	got, err = store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
