// Package emailaddr validates and normalizes email addresses as entered by
// users on the identity front door.
//
// Validation is deliberately lenient: it enforces the RFC length limits on
// the local part (64 bytes) and domain (255 bytes), requires an @ with
// non-empty sides, and accepts Unicode addresses. Anything stricter belongs
// to the mailbox provider; over-validating rejects real addresses.
//
// Suggest offers a "did you mean" correction for common domain typos, a UX
// nicety surfaced alongside the invalid_email outcome.
package emailaddr
