package flow

import (
	"context"
	"fmt"

	"github.com/idfront/idfront/pkg/logger"
	"github.com/idfront/idfront/pkg/mailer"
	"github.com/idfront/idfront/pkg/securetoken"
)

// RequestEmailVerification issues a verification code for the
// authenticated user and dispatches it. An already verified email fails
// fast with OutcomeEmailVerifiedAlready and no token is minted.
func (s *Service) RequestEmailVerification(ctx context.Context, state SessionState) (SessionState, Result, error) {
	if !state.IsAuthenticated() {
		return state, Result{}, ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, state.User.ID)
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to load user: %w", err)
	}

	if user.EmailVerifiedAt != nil {
		return state, outcome(OutcomeEmailVerifiedAlready), nil
	}

	tok, err := s.tokens.Issue(ctx, securetoken.KindEmailVerification, user.ID.String())
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to issue verification token: %w", err)
	}

	s.dispatchMail(mailer.KindEmailVerification, user.Email, mailer.Payload{Token: tok.Value})

	return state, outcome(OutcomeVerifyEmailSent), nil
}

// ConsumeEmailVerification redeems a verification code for the
// authenticated user. The code must have been minted for that same user;
// an invalid, expired, replayed or cross-account code reports
// OutcomeInvalidVerifyEmailCode and changes nothing.
func (s *Service) ConsumeEmailVerification(ctx context.Context, state SessionState, code string) (SessionState, Result, error) {
	if !state.IsAuthenticated() {
		return state, Result{}, ErrUnauthenticated
	}

	// Validate before consuming so a cross-account code is rejected
	// without being burned for its rightful owner.
	rec, err := s.tokens.Validate(ctx, securetoken.KindEmailVerification, code)
	if isTokenError(err) {
		return state, outcome(OutcomeInvalidVerifyEmailCode), nil
	}
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to validate verification token: %w", err)
	}
	if rec.Subject != state.User.ID.String() {
		return state, outcome(OutcomeInvalidVerifyEmailCode), nil
	}

	if _, err := s.tokens.Consume(ctx, securetoken.KindEmailVerification, code); err != nil {
		if isTokenError(err) {
			// Lost a consumption race.
			return state, outcome(OutcomeInvalidVerifyEmailCode), nil
		}
		return state, Result{}, fmt.Errorf("failed to consume verification token: %w", err)
	}

	if _, err := s.users.MarkEmailVerified(ctx, state.User.ID, s.now()); err != nil {
		return state, Result{}, fmt.Errorf("failed to mark email verified: %w", err)
	}

	s.logger.Info("email verified",
		logger.UserID(state.User.ID.String()),
		logger.Action("verify_email"),
		logger.Component("flow"),
	)

	return state, outcome(OutcomeEmailVerified), nil
}
