package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/idfront/idfront/pkg/flow"
)

// Session binds a browser's flow state to an opaque token. The token is
// the only thing the client holds; everything else lives server side.
type Session struct {
	ID             uuid.UUID         `json:"id"`
	Token          string            `json:"token"`
	State          flow.SessionState `json:"state"`
	CreatedAt      time.Time         `json:"created_at"`
	LastActivityAt time.Time         `json:"last_activity_at"`
	ExpiresAt      time.Time         `json:"expires_at"`
}

// IsAuthenticated reports whether the session's flow state holds a user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.State.IsAuthenticated()
}

// IsExpired reports whether the session passed its absolute deadline
// at the given time.
func (s *Session) IsExpired(at time.Time) bool {
	return s != nil && at.After(s.ExpiresAt)
}

// IdleExpired reports whether the session had been inactive for longer
// than the idle timeout at the given time.
func (s *Session) IdleExpired(at time.Time, idle time.Duration) bool {
	return s != nil && at.After(s.LastActivityAt.Add(idle))
}

// Touch updates the last activity time.
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.LastActivityAt = time.Now()
}
