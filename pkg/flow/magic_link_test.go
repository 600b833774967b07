package flow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idfront/idfront/pkg/flow"
	"github.com/idfront/idfront/pkg/mailer"
	"github.com/idfront/idfront/pkg/securetoken"
)

func TestService_RequestMagicLink(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("sends a link for the pending email", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		state := flow.SessionState{PendingEmail: "user@example.com"}
		next, res, err := f.svc.RequestMagicLink(ctx, state)
		require.NoError(t, err)
		assert.Equal(t, flow.OutcomeMagicLinkSent, res.Outcome)
		assert.Equal(t, state, next)

		f.waitForMail(t, 1)
		sent := f.mail.last()
		assert.Equal(t, mailer.KindMagicLink, sent.kind)
		assert.Equal(t, "user@example.com", sent.recipient)
	})

	t.Run("same outcome whether or not an account exists", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.createUser(t, "known@example.com", "existing password!")

		for _, email := range []string{"known@example.com", "unknown@example.com"} {
			_, res, err := f.svc.RequestMagicLink(ctx, flow.SessionState{PendingEmail: email})
			require.NoError(t, err)
			assert.Equal(t, flow.OutcomeMagicLinkSent, res.Outcome)
		}
	})

	t.Run("requesting twice keeps the earlier link valid", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		state := flow.SessionState{PendingEmail: "user@example.com"}
		_, _, err := f.svc.RequestMagicLink(ctx, state)
		require.NoError(t, err)
		f.waitForMail(t, 1)
		first := f.mail.last().token

		_, _, err = f.svc.RequestMagicLink(ctx, state)
		require.NoError(t, err)
		f.waitForMail(t, 2)

		_, err = f.issu.Validate(ctx, securetoken.KindMagicLink, first)
		assert.NoError(t, err)
	})

	t.Run("no pending email", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, res, err := f.svc.RequestMagicLink(ctx, flow.SessionState{})
		require.NoError(t, err)
		assert.Equal(t, flow.OutcomeInvalidEmail, res.Outcome)
		assert.Zero(t, f.mail.count())
	})
}

func TestService_ConsumeMagicLink(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("authenticates the requesting session", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		user := f.createUser(t, "user@example.com", "existing password!")

		tok, err := f.issu.Issue(ctx, securetoken.KindMagicLink, "user@example.com")
		require.NoError(t, err)

		state := flow.SessionState{PendingEmail: "user@example.com"}
		next, res, err := f.svc.ConsumeMagicLink(ctx, state, tok.Value)
		require.NoError(t, err)
		assert.Equal(t, flow.OutcomeAuthenticated, res.Outcome)
		require.NotNil(t, next.User)
		assert.Equal(t, user.ID, next.User.ID)
		assert.Empty(t, next.PendingEmail)
	})

	t.Run("marks the email verified on first login", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		user := f.createUser(t, "user@example.com", "existing password!")
		require.Nil(t, user.EmailVerifiedAt)

		tok, err := f.issu.Issue(ctx, securetoken.KindMagicLink, "user@example.com")
		require.NoError(t, err)

		_, _, err = f.svc.ConsumeMagicLink(ctx, flow.SessionState{PendingEmail: "user@example.com"}, tok.Value)
		require.NoError(t, err)

		fresh, err := f.users.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, fresh.EmailVerifiedAt)
	})

	t.Run("provisions a passwordless account for an unknown email", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		tok, err := f.issu.Issue(ctx, securetoken.KindMagicLink, "new@example.com")
		require.NoError(t, err)

		next, res, err := f.svc.ConsumeMagicLink(ctx, flow.SessionState{PendingEmail: "new@example.com"}, tok.Value)
		require.NoError(t, err)
		assert.Equal(t, flow.OutcomeAuthenticated, res.Outcome)

		user, err := f.users.FindByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		assert.Empty(t, user.PasswordHash)
		assert.NotNil(t, user.EmailVerifiedAt)
		assert.Equal(t, user.ID, next.User.ID)
	})

	t.Run("foreign session gets a confirmation step and the token survives", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.createUser(t, "user@example.com", "existing password!")

		tok, err := f.issu.Issue(ctx, securetoken.KindMagicLink, "user@example.com")
		require.NoError(t, err)

		// A session with no pending email: another browser, or a crawler
		// prefetching the link.
		next, res, err := f.svc.ConsumeMagicLink(ctx, flow.SessionState{}, tok.Value)
		require.NoError(t, err)
		assert.Equal(t, flow.OutcomeMagicLinkConfirmation, res.Outcome)
		assert.Nil(t, next.User)

		_, err = f.issu.Validate(ctx, securetoken.KindMagicLink, tok.Value)
		assert.NoError(t, err, "a confirmation prompt must not burn the token")
	})

	t.Run("confirm completes a foreign session login", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		user := f.createUser(t, "user@example.com", "existing password!")

		tok, err := f.issu.Issue(ctx, securetoken.KindMagicLink, "user@example.com")
		require.NoError(t, err)

		next, res, err := f.svc.ConfirmMagicLink(ctx, flow.SessionState{}, tok.Value)
		require.NoError(t, err)
		assert.Equal(t, flow.OutcomeAuthenticated, res.Outcome)
		require.NotNil(t, next.User)
		assert.Equal(t, user.ID, next.User.ID)
	})

	t.Run("replayed link fails with the reinit variant when email is pending", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.createUser(t, "user@example.com", "existing password!")

		tok, err := f.issu.Issue(ctx, securetoken.KindMagicLink, "user@example.com")
		require.NoError(t, err)

		state := flow.SessionState{PendingEmail: "user@example.com"}
		_, _, err = f.svc.ConsumeMagicLink(ctx, state, tok.Value)
		require.NoError(t, err)

		next, res, err := f.svc.ConsumeMagicLink(ctx, state, tok.Value)
		require.NoError(t, err)
		assert.Equal(t, flow.OutcomeInvalidMagicLinkReinit, res.Outcome)
		assert.Equal(t, state, next)
	})

	t.Run("garbage token without pending email fails without reinit", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, res, err := f.svc.ConfirmMagicLink(ctx, flow.SessionState{}, "no-such-token")
		require.NoError(t, err)
		assert.Equal(t, flow.OutcomeInvalidMagicLink, res.Outcome)
	})

	t.Run("full request and consume round trip", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		state := flow.SessionState{PendingEmail: "user@example.com"}
		_, _, err := f.svc.RequestMagicLink(ctx, state)
		require.NoError(t, err)
		f.waitForMail(t, 1)

		next, res, err := f.svc.ConsumeMagicLink(ctx, state, f.mail.last().token)
		require.NoError(t, err)
		assert.Equal(t, flow.OutcomeAuthenticated, res.Outcome)
		assert.True(t, next.IsAuthenticated())
	})
}
