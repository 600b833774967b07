// Package securetoken mints and consumes the single-use, time-limited
// opaque tokens backing email verification, magic-link sign-in and
// password reset.
//
// A token value is 32 bytes of cryptographic randomness, base64url encoded.
// Only its SHA-256 digest is persisted, so a leaked store never yields
// usable tokens. Validation is a pure lookup; consumption atomically stamps
// consumed_at exactly once, and the losing side of a consumption race
// observes ErrTokenAlreadyUsed.
//
// Token values pasted by users are compared after stripping all whitespace,
// tolerating values split across lines in email clients.
//
// Re-issuing a token of the same kind for the same subject does not revoke
// the previous one; the old token simply ages out at its own expiry.
package securetoken
