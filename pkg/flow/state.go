package flow

import "github.com/google/uuid"

// Phase is the coarse position of a session in the authentication flow.
type Phase string

const (
	PhaseAnonymous     Phase = "anonymous"
	PhaseEmailPending  Phase = "email_pending"
	PhaseAuthenticated Phase = "authenticated"
)

// UserRef identifies an authenticated user inside the session without
// carrying the full record.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// SessionState is the flow-relevant state attached to one browser session.
// It is passed by value into every operation and returned (possibly
// updated) alongside the outcome; operations never mutate it in place.
//
// PendingEmail and User may coexist: PendingEmail is only cleared by an
// explicit flow success. InteractionID is an opaque correlation value for
// an external SSO interaction, carried through untouched.
type SessionState struct {
	PendingEmail  string   `json:"pending_email,omitempty"`
	User          *UserRef `json:"user,omitempty"`
	InteractionID string   `json:"interaction_id,omitempty"`
}

// Phase derives the coarse flow phase. An authenticated user dominates a
// leftover pending email.
func (s SessionState) Phase() Phase {
	switch {
	case s.User != nil:
		return PhaseAuthenticated
	case s.PendingEmail != "":
		return PhaseEmailPending
	default:
		return PhaseAnonymous
	}
}

// IsAuthenticated reports whether the session holds an authenticated user.
func (s SessionState) IsAuthenticated() bool {
	return s.User != nil
}

// withPendingEmail binds the entered email to the session.
func (s SessionState) withPendingEmail(email string) SessionState {
	s.PendingEmail = email
	return s
}

// authenticated transitions the session to the authenticated phase.
// PendingEmail is cleared immediately so a stale email can never leak into
// a later flow.
func (s SessionState) authenticated(user *User) SessionState {
	s.User = &UserRef{ID: user.ID, Email: user.Email}
	s.PendingEmail = ""
	return s
}
