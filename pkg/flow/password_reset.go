package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/idfront/idfront/pkg/credentials"
	"github.com/idfront/idfront/pkg/emailaddr"
	"github.com/idfront/idfront/pkg/logger"
	"github.com/idfront/idfront/pkg/mailer"
	"github.com/idfront/idfront/pkg/securetoken"
)

// RequestPasswordReset issues a reset token for the given email and
// dispatches the reset link. The account is never looked up, so the
// outcome is identical for registered and unknown addresses; a token
// minted for a nonexistent account simply fails at consumption.
func (s *Service) RequestPasswordReset(ctx context.Context, state SessionState, email string) (SessionState, Result, error) {
	email = emailaddr.Normalize(email)
	if !emailaddr.IsValid(email) {
		return state, outcome(OutcomeInvalidEmail), nil
	}
	if fixed := emailaddr.Suggest(email); fixed != "" {
		return state, Result{Outcome: OutcomeInvalidEmail, Suggestion: fixed}, nil
	}

	tok, err := s.tokens.Issue(ctx, securetoken.KindPasswordReset, email)
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to issue reset token: %w", err)
	}

	s.dispatchMail(mailer.KindPasswordReset, email, mailer.Payload{Token: tok.Value})

	return state, outcome(OutcomeResetEmailSent), nil
}

// ConsumePasswordReset redeems a reset token and installs the new
// password. Strength is checked before the token is touched: a weak
// password must not burn a valid token, which stays reusable with a
// stronger one.
func (s *Service) ConsumePasswordReset(ctx context.Context, state SessionState, token, newPassword string) (SessionState, Result, error) {
	if err := s.passwords.CheckStrength(newPassword); err != nil {
		if credentials.IsPolicyViolation(err) {
			return state, outcome(OutcomeWeakPassword), nil
		}
		return state, Result{}, fmt.Errorf("failed to check password strength: %w", err)
	}

	// Resolve the subject before consuming so a token minted for an email
	// without an account is rejected while still unconsumed.
	rec, err := s.tokens.Validate(ctx, securetoken.KindPasswordReset, token)
	if isTokenError(err) {
		return state, outcome(OutcomeInvalidToken), nil
	}
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to validate reset token: %w", err)
	}

	user, err := s.users.FindByEmail(ctx, rec.Subject)
	if errors.Is(err, ErrUserNotFound) {
		return state, outcome(OutcomeInvalidToken), nil
	}
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to look up user: %w", err)
	}

	// Hash before consuming: a hashing failure must not burn the token.
	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.tokens.Consume(ctx, securetoken.KindPasswordReset, token); err != nil {
		if isTokenError(err) {
			return state, outcome(OutcomeInvalidToken), nil
		}
		return state, Result{}, fmt.Errorf("failed to consume reset token: %w", err)
	}

	if _, err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return state, Result{}, fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password reset completed",
		logger.UserID(user.ID.String()),
		logger.Action("reset_password"),
		logger.Component("flow"),
	)

	return state, outcome(OutcomePasswordChanged), nil
}
