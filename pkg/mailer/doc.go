// Package mailer delivers the transactional emails minted by the
// authentication flows: email-verification codes, magic links and
// password-reset links.
//
// The Dispatcher builds one message per Kind and hands it to an
// EmailSender. Production uses the Postmark sender; local development uses
// DevSender, which writes outgoing mail to disk instead of sending it.
//
// Delivery is best-effort by contract: the flow orchestrator dispatches in
// the background and a failed send never rolls back token issuance.
package mailer
