package securetoken

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"
	"unicode"
)

// Kind identifies what a token authorizes.
type Kind string

const (
	KindEmailVerification Kind = "email_verification"
	KindMagicLink         Kind = "magic_link"
	KindPasswordReset     Kind = "password_reset"
)

// Record is the persisted state of an issued token. The token value itself
// is never stored, only its digest.
type Record struct {
	Digest     string
	Kind       Kind
	Subject    string // user ID or email, depending on kind
	IssuedAt   time.Time
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}

// LiveAt reports whether the token is still consumable at the given time.
func (r Record) LiveAt(t time.Time) bool {
	return r.ConsumedAt == nil && t.Before(r.ExpiresAt)
}

// Token pairs a freshly minted value with its record. The Value field is
// only populated at issue time; afterwards the value exists nowhere but in
// the email sent to the user.
type Token struct {
	Value string
	Record
}

// Store persists token records. Consume must be atomic: of two concurrent
// calls for the same live token, exactly one succeeds and the other
// receives ErrTokenAlreadyUsed. Implementations return ErrTokenNotFound,
// ErrTokenExpired and ErrTokenAlreadyUsed as appropriate.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Find(ctx context.Context, kind Kind, digest string) (Record, error)
	Consume(ctx context.Context, kind Kind, digest string, at time.Time) (Record, error)
}

// tokenBytes gives 256 bits of entropy, well past the guessing-resistance
// floor for single-use tokens.
const tokenBytes = 32

func newValue() string {
	buf := make([]byte, tokenBytes)
	// rand.Read never fails on supported platforms since Go 1.24.
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

// normalizeValue strips all whitespace from a user-supplied token value.
// Minted values never contain whitespace, so this only ever removes noise
// introduced by copy-pasting.
func normalizeValue(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
