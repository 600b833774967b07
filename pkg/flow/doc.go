// Package flow implements the authentication flow state machine of the
// identity front door: how a browser session moves between anonymous,
// email-known and authenticated states, and how each action's failure
// modes map to stable outcome codes.
//
// The session state is an explicit value: every operation takes the
// current SessionState plus a validated payload and returns the next
// SessionState together with a Result. The surrounding web layer
// translates outcomes into redirects; nothing here renders or routes.
//
// Failure atomicity: an operation that does not succeed returns the input
// state unchanged. Domain failures surface as outcome codes, unexpected
// collaborator failures as errors for the generic handler.
//
// Enumeration safety: requesting a magic link or a password reset yields
// the same success outcome whether or not the target account exists.
package flow
