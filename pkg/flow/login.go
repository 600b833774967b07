package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/idfront/idfront/pkg/emailaddr"
	"github.com/idfront/idfront/pkg/logger"
)

// StartLogin binds the entered email to the session and routes the user to
// sign-in or sign-up depending on whether an account exists. An invalid
// address yields OutcomeInvalidEmail with a typo suggestion when one is
// available, leaving the state untouched.
func (s *Service) StartLogin(ctx context.Context, state SessionState, email string) (SessionState, Result, error) {
	email = emailaddr.Normalize(email)
	if !emailaddr.IsValid(email) {
		return state, outcome(OutcomeInvalidEmail), nil
	}
	// A well-known typo domain is treated as invalid so the user is
	// offered the correction instead of signing up at the wrong address.
	if fixed := emailaddr.Suggest(email); fixed != "" {
		return state, Result{Outcome: OutcomeInvalidEmail, Suggestion: fixed}, nil
	}

	next := state.withPendingEmail(email)

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return next, outcome(OutcomeSignIn), nil
	case errors.Is(err, ErrUserNotFound):
		return next, outcome(OutcomeSignUp), nil
	default:
		return state, Result{}, fmt.Errorf("failed to look up user: %w", err)
	}
}

// PasswordLogin verifies the password for the session's pending email.
// Verification failures report OutcomeInvalidCredentials without revealing
// whether the account exists.
func (s *Service) PasswordLogin(ctx context.Context, state SessionState, password string) (SessionState, Result, error) {
	if state.PendingEmail == "" {
		return state, outcome(OutcomeInvalidEmail), nil
	}

	user, err := s.users.FindByEmail(ctx, state.PendingEmail)
	if errors.Is(err, ErrUserNotFound) {
		return state, outcome(OutcomeInvalidCredentials), nil
	}
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if len(user.PasswordHash) == 0 || !s.passwords.Verify(password, user.PasswordHash) {
		return state, outcome(OutcomeInvalidCredentials), nil
	}

	s.logger.Info("password login succeeded",
		logger.UserID(user.ID.String()),
		logger.Action("password_login"),
		logger.Component("flow"),
	)

	return state.authenticated(user), outcome(OutcomeAuthenticated), nil
}
