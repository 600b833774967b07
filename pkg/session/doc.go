// Package session carries the authentication flow state of one browser
// across the redirects of the login journey. Each session is addressed by
// an opaque random token suitable for a cookie value and persisted through
// a pluggable Store; in-memory and Redis implementations ship out of the
// box.
//
// A Manager orchestrates the lifecycle: Start mints a token and creates
// the record, Load fetches and expiry-checks it, Save writes back the
// flow state after each operation. Sessions expire on two axes: an idle
// timeout sliding with activity and an absolute lifetime from creation,
// both configurable per authentication phase.
//
// Usage:
//
//	mgr := session.NewManager(session.NewMemoryStore(cfg.CleanupInterval), cfg)
//
//	sess, err := mgr.Start(ctx)
//	// ... run a flow operation ...
//	sess.State = nextState
//	err = mgr.Save(ctx, sess)
package session
