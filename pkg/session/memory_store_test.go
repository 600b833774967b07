package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idfront/idfront/pkg/session"
)

func newTestSession(token string, ttl time.Duration) *session.Session {
	now := time.Now()
	return &session.Session{
		ID:             uuid.New(),
		Token:          token,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(ttl),
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		sess := newTestSession("tok-1", time.Hour)

		require.NoError(t, store.Create(ctx, sess))

		got, err := store.Get(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
	})

	t.Run("get rejects missing token", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)

		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("get evicts an expired session", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		require.NoError(t, store.Create(ctx, newTestSession("tok-1", -time.Minute)))

		_, err := store.Get(ctx, "tok-1")
		assert.ErrorIs(t, err, session.ErrSessionExpired)

		_, err = store.Get(ctx, "tok-1")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("update requires an existing session", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)

		err := store.Update(ctx, newTestSession("tok-1", time.Hour))
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("returned sessions are copies", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		require.NoError(t, store.Create(ctx, newTestSession("tok-1", time.Hour)))

		got, err := store.Get(ctx, "tok-1")
		require.NoError(t, err)
		got.State.PendingEmail = "mutated@example.com"

		fresh, err := store.Get(ctx, "tok-1")
		require.NoError(t, err)
		assert.Empty(t, fresh.State.PendingEmail)
	})

	t.Run("delete expired sweeps only past-deadline sessions", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		require.NoError(t, store.Create(ctx, newTestSession("dead", -time.Minute)))
		require.NoError(t, store.Create(ctx, newTestSession("live", time.Hour)))

		require.NoError(t, store.DeleteExpired(ctx))

		_, err := store.Get(ctx, "dead")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
		_, err = store.Get(ctx, "live")
		assert.NoError(t, err)
	})
}
