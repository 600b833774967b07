package credentials

import "errors"

var (
	ErrWeakPassword     = errors.New("password does not meet minimum length requirement")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length")
	ErrPasswordRequired = errors.New("password is required")
)

// IsPolicyViolation reports whether err is a password policy failure, as
// opposed to an infrastructure error.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrPasswordRequired) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrPasswordTooLong)
}
