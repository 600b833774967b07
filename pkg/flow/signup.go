package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/idfront/idfront/pkg/credentials"
	"github.com/idfront/idfront/pkg/logger"
	"github.com/idfront/idfront/pkg/mailer"
	"github.com/idfront/idfront/pkg/securetoken"
)

// Signup creates an account for the session's pending email and
// authenticates the session. A verification code is dispatched right after
// creation; its delivery never affects the outcome.
func (s *Service) Signup(ctx context.Context, state SessionState, password string) (SessionState, Result, error) {
	if state.PendingEmail == "" {
		return state, outcome(OutcomeInvalidEmail), nil
	}

	if err := s.passwords.CheckStrength(password); err != nil {
		if credentials.IsPolicyViolation(err) {
			return state, outcome(OutcomeWeakPassword), nil
		}
		return state, Result{}, fmt.Errorf("failed to check password strength: %w", err)
	}

	_, err := s.users.FindByEmail(ctx, state.PendingEmail)
	if err == nil {
		return state, outcome(OutcomeEmailUnavailable), nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return state, Result{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, state.PendingEmail, hash)
	if errors.Is(err, ErrEmailAlreadyExists) {
		// Lost a create race with a concurrent signup for the same email.
		return state, outcome(OutcomeEmailUnavailable), nil
	}
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user signed up",
		logger.UserID(user.ID.String()),
		logger.Action("signup"),
		logger.Component("flow"),
	)

	// Kick off email verification eagerly; a failure here must not undo
	// the signup.
	if tok, err := s.tokens.Issue(ctx, securetoken.KindEmailVerification, user.ID.String()); err != nil {
		s.logger.Error("failed to issue verification token after signup",
			logger.UserID(user.ID.String()),
			logger.Error(err),
			logger.Component("flow"),
		)
	} else {
		s.dispatchMail(mailer.KindEmailVerification, user.Email, mailer.Payload{Token: tok.Value})
	}

	return state.authenticated(user), outcome(OutcomeAuthenticated), nil
}
