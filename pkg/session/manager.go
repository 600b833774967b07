package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/idfront/idfront/pkg/flow"
)

const tokenBytes = 32

// Manager orchestrates the session lifecycle against a Store. It hands
// out opaque tokens for the cookie layer and enforces both expiry axes on
// every load.
type Manager struct {
	store  Store
	config Config
	now    func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager on the given store.
func NewManager(store Store, cfg Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		config: cfg,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start creates a fresh anonymous session and returns it with its token.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := m.now()
	_, max := m.config.Timeouts(false)

	session := &Session{
		ID:             uuid.New(),
		Token:          token,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(max),
	}

	if err := m.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Load fetches the session for a token, enforcing the idle timeout on top
// of the store's absolute one. An expired session is deleted and reported
// as ErrSessionExpired; the caller starts a new one.
func (m *Manager) Load(ctx context.Context, token string) (*Session, error) {
	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.IsExpired(m.now()) {
		_ = m.store.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	idle, _ := m.config.Timeouts(session.IsAuthenticated())
	if session.IdleExpired(m.now(), idle) {
		_ = m.store.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Save writes the session back after a flow operation, refreshing
// activity. Crossing into the authenticated phase extends the absolute
// deadline to the authenticated lifetime.
func (m *Manager) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrInvalidSession
	}

	now := m.now()
	session.LastActivityAt = now

	_, max := m.config.Timeouts(session.IsAuthenticated())
	if deadline := session.CreatedAt.Add(max); deadline.After(session.ExpiresAt) {
		session.ExpiresAt = deadline
	}

	return m.store.Update(ctx, session)
}

// Renew rotates the session token in place, keeping the flow state. Call
// it right after authentication to prevent session fixation.
func (m *Manager) Renew(ctx context.Context, session *Session) (*Session, error) {
	if session == nil {
		return nil, ErrInvalidSession
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	old := session.Token
	renewed := *session
	renewed.Token = token

	if err := m.store.Create(ctx, &renewed); err != nil {
		return nil, fmt.Errorf("failed to create renewed session: %w", err)
	}
	if err := m.store.Delete(ctx, old); err != nil {
		return nil, fmt.Errorf("failed to drop old session: %w", err)
	}

	return &renewed, nil
}

// Destroy removes the session, e.g. on logout.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// Apply persists the result of one flow operation: the state is stored
// and the token rotated when the operation authenticated the session.
func (m *Manager) Apply(ctx context.Context, session *Session, state flow.SessionState) (*Session, error) {
	if session == nil {
		return nil, ErrInvalidSession
	}

	wasAuthenticated := session.IsAuthenticated()
	session.State = state

	if err := m.Save(ctx, session); err != nil {
		return nil, err
	}

	if !wasAuthenticated && state.IsAuthenticated() {
		return m.Renew(ctx, session)
	}

	return session, nil
}

// generateToken returns a URL-safe random token with 256 bits of entropy.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
