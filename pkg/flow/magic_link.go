package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/idfront/idfront/pkg/logger"
	"github.com/idfront/idfront/pkg/mailer"
	"github.com/idfront/idfront/pkg/securetoken"
)

// RequestMagicLink issues a magic-link token for the session's pending
// email and dispatches it. The outcome is OutcomeMagicLinkSent whether or
// not an account exists for that email; this uniformity is deliberate and
// prevents account enumeration.
func (s *Service) RequestMagicLink(ctx context.Context, state SessionState) (SessionState, Result, error) {
	if state.PendingEmail == "" {
		return state, outcome(OutcomeInvalidEmail), nil
	}

	tok, err := s.tokens.Issue(ctx, securetoken.KindMagicLink, state.PendingEmail)
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to issue magic link token: %w", err)
	}

	s.dispatchMail(mailer.KindMagicLink, state.PendingEmail, mailer.Payload{Token: tok.Value})

	return state, outcome(OutcomeMagicLinkSent), nil
}

// ConsumeMagicLink handles a magic-link click. When the session does not
// hold the requesting email, the click is answered with a manual
// confirmation step and the token is left untouched, so link-preview
// crawlers and cross-browser clicks never silently authenticate.
func (s *Service) ConsumeMagicLink(ctx context.Context, state SessionState, token string) (SessionState, Result, error) {
	if RequiresManualConfirmation(state) {
		return state, outcome(OutcomeMagicLinkConfirmation), nil
	}
	return s.consumeMagicLink(ctx, state, token)
}

// ConfirmMagicLink completes the manual confirmation step: the user has
// explicitly submitted the link, so the anti-automation guard no longer
// applies.
func (s *Service) ConfirmMagicLink(ctx context.Context, state SessionState, token string) (SessionState, Result, error) {
	return s.consumeMagicLink(ctx, state, token)
}

func (s *Service) consumeMagicLink(ctx context.Context, state SessionState, token string) (SessionState, Result, error) {
	rec, err := s.tokens.Consume(ctx, securetoken.KindMagicLink, token)
	if isTokenError(err) {
		return state, outcome(s.magicLinkFailure(state)), nil
	}
	if err != nil {
		return state, Result{}, fmt.Errorf("failed to consume magic link token: %w", err)
	}

	user, err := s.users.FindByEmail(ctx, rec.Subject)
	switch {
	case errors.Is(err, ErrUserNotFound):
		// First sign-in through a magic link provisions the account.
		// No password hash: the account stays passwordless until a reset.
		user, err = s.users.Create(ctx, rec.Subject, nil)
		if err != nil {
			return state, Result{}, fmt.Errorf("failed to create user: %w", err)
		}
	case err != nil:
		return state, Result{}, fmt.Errorf("failed to look up user: %w", err)
	}

	// A consumed magic link proves mailbox ownership.
	if user.EmailVerifiedAt == nil {
		user, err = s.users.MarkEmailVerified(ctx, user.ID, s.now())
		if err != nil {
			return state, Result{}, fmt.Errorf("failed to mark email verified: %w", err)
		}
	}

	s.logger.Info("magic link login succeeded",
		logger.UserID(user.ID.String()),
		logger.Action("magic_link"),
		logger.Component("flow"),
	)

	return state.authenticated(user), outcome(OutcomeAuthenticated), nil
}

// magicLinkFailure picks the failure route: a session that still remembers
// the email gets the variant offering a resend, anyone else restarts.
func (s *Service) magicLinkFailure(state SessionState) Outcome {
	if state.PendingEmail != "" {
		return OutcomeInvalidMagicLinkReinit
	}
	return OutcomeInvalidMagicLink
}

// isTokenError reports whether err is one of the token validity failures
// that map to a user-visible outcome rather than an internal error.
func isTokenError(err error) bool {
	return errors.Is(err, securetoken.ErrTokenNotFound) ||
		errors.Is(err, securetoken.ErrTokenExpired) ||
		errors.Is(err, securetoken.ErrTokenAlreadyUsed)
}
