package session

import "context"

// Store defines the interface for session persistence. Implementations
// must return ErrSessionNotFound for unknown tokens and treat the token
// as the primary key.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token.
	Get(ctx context.Context, token string) (*Session, error)

	// Update overwrites an existing session.
	Update(ctx context.Context, session *Session) error

	// Delete removes a session by token.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all sessions past their absolute deadline.
	DeleteExpired(ctx context.Context) error
}
