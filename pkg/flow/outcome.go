package flow

// Outcome is a stable, case-sensitive code the web boundary maps to a
// redirect or response. Codes are part of the external contract and must
// not be renamed.
type Outcome string

// Failure outcomes.
const (
	OutcomeInvalidEmail           Outcome = "invalid_email"
	OutcomeInvalidCredentials     Outcome = "invalid_credentials"
	OutcomeInvalidToken           Outcome = "invalid_token"
	OutcomeInvalidMagicLink       Outcome = "invalid_magic_link"
	OutcomeInvalidMagicLinkReinit Outcome = "invalid_magic_link_with_reinit"
	OutcomeEmailUnavailable       Outcome = "email_unavailable"
	OutcomeWeakPassword           Outcome = "weak_password"
	OutcomeEmailVerifiedAlready   Outcome = "email_verified_already"
	OutcomeInvalidVerifyEmailCode Outcome = "invalid_verify_email_code"
	OutcomeInvalidPersonalInfo    Outcome = "invalid_personal_informations"
)

// Success outcomes.
const (
	OutcomeSignIn                Outcome = "sign_in"
	OutcomeSignUp                Outcome = "sign_up"
	OutcomeAuthenticated         Outcome = "authenticated"
	OutcomeMagicLinkSent         Outcome = "magic_link_sent"
	OutcomeMagicLinkConfirmation Outcome = "magic_link_confirmation_required"
	OutcomeVerifyEmailSent       Outcome = "verify_email_sent"
	OutcomeEmailVerified         Outcome = "email_verified"
	OutcomeResetEmailSent        Outcome = "reset_password_email_sent"
	OutcomePasswordChanged       Outcome = "password_change_success"
	OutcomePersonalInfoUpdated   Outcome = "personal_information_updated"
)

// Result is the tagged outcome of one flow operation. Operations return it
// alongside the next SessionState; callers switch on Outcome, never on
// error identity.
type Result struct {
	Outcome Outcome
	// Suggestion carries a "did you mean" email correction with
	// OutcomeInvalidEmail, when one is available.
	Suggestion string
}

var failureOutcomes = map[Outcome]bool{
	OutcomeInvalidEmail:           true,
	OutcomeInvalidCredentials:     true,
	OutcomeInvalidToken:           true,
	OutcomeInvalidMagicLink:       true,
	OutcomeInvalidMagicLinkReinit: true,
	OutcomeEmailUnavailable:       true,
	OutcomeWeakPassword:           true,
	OutcomeEmailVerifiedAlready:   true,
	OutcomeInvalidVerifyEmailCode: true,
	OutcomeInvalidPersonalInfo:    true,
}

// Success reports whether the outcome represents a completed transition.
func (r Result) Success() bool {
	return !failureOutcomes[r.Outcome]
}

func outcome(o Outcome) Result {
	return Result{Outcome: o}
}
