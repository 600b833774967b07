package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idfront/idfront/pkg/flow"
	"github.com/idfront/idfront/pkg/session"
)

func testConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.CleanupInterval = 0
	return cfg
}

func TestManager_StartAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	assert.False(t, sess.IsAuthenticated())

	loaded, err := mgr.Load(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, flow.PhaseAnonymous, loaded.State.Phase())
}

func TestManager_TokensAreUnique(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	seen := make(map[string]bool)
	for range 100 {
		sess, err := mgr.Start(ctx)
		require.NoError(t, err)
		require.False(t, seen[sess.Token])
		seen[sess.Token] = true
	}
}

func TestManager_LoadUnknownToken(t *testing.T) {
	t.Parallel()

	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	_, err := mgr.Load(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_IdleExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig()
	cfg.AnonIdleTimeout = 30 * time.Minute

	now := time.Now()
	store := session.NewMemoryStore(0)
	mgr := session.NewManager(store, cfg, session.WithClock(func() time.Time { return now }))

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)

	// Still inside the idle window.
	now = now.Add(29 * time.Minute)
	_, err = mgr.Load(ctx, sess.Token)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = mgr.Load(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrSessionExpired)

	// The expired session is gone from the store too.
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_AbsoluteExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig()
	cfg.AnonIdleTimeout = 48 * time.Hour
	cfg.AnonMaxLifetime = 24 * time.Hour

	now := time.Now()
	store := session.NewMemoryStore(0)
	mgr := session.NewManager(store, cfg, session.WithClock(func() time.Time { return now }))

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)

	// The absolute deadline binds even though the idle window is open.
	now = now.Add(25 * time.Hour)
	_, err = mgr.Load(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrSessionExpired)
}

func TestManager_SaveCarriesFlowState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)

	sess.State = flow.SessionState{PendingEmail: "user@example.com"}
	require.NoError(t, mgr.Save(ctx, sess))

	loaded, err := mgr.Load(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", loaded.State.PendingEmail)
}

func TestManager_ApplyRotatesTokenOnAuthentication(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore(0)
	mgr := session.NewManager(store, testConfig())

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)
	oldToken := sess.Token

	authenticated := flow.SessionState{
		User: &flow.UserRef{ID: uuid.New(), Email: "user@example.com"},
	}
	renewed, err := mgr.Apply(ctx, sess, authenticated)
	require.NoError(t, err)

	assert.NotEqual(t, oldToken, renewed.Token, "authentication must rotate the token")
	assert.True(t, renewed.IsAuthenticated())

	_, err = store.Get(ctx, oldToken)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	loaded, err := mgr.Load(ctx, renewed.Token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", loaded.State.User.Email)
}

func TestManager_ApplyKeepsTokenWhileAnonymous(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)
	token := sess.Token

	next, err := mgr.Apply(ctx, sess, flow.SessionState{PendingEmail: "user@example.com"})
	require.NoError(t, err)
	assert.Equal(t, token, next.Token)
}

func TestManager_AuthenticationExtendsDeadline(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig()
	cfg.AnonMaxLifetime = time.Hour
	cfg.AuthMaxLifetime = 100 * time.Hour

	mgr := session.NewManager(session.NewMemoryStore(0), cfg)

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)
	anonDeadline := sess.ExpiresAt

	next, err := mgr.Apply(ctx, sess, flow.SessionState{
		User: &flow.UserRef{ID: uuid.New(), Email: "user@example.com"},
	})
	require.NoError(t, err)
	assert.True(t, next.ExpiresAt.After(anonDeadline))
}

func TestManager_Destroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, mgr.Destroy(ctx, sess.Token))

	_, err = mgr.Load(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
