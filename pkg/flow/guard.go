package flow

// RequiresManualConfirmation is the anti-automation heuristic for magic
// links: a click may only auto-submit when the session already holds the
// email that requested the link, i.e. the same browser. Sessions without a
// pending email (link-preview crawlers, a different browser) must pass
// through a manual confirmation step instead.
//
// The predicate is evaluated before token consumption and is a property of
// the session, not of the token.
func RequiresManualConfirmation(state SessionState) bool {
	return state.PendingEmail == ""
}
