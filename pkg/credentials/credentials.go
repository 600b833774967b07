package credentials

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// DefaultMinLength is the reference password policy: 10 characters.
const DefaultMinLength = 10

// MaxLengthBytes is bcrypt's input cap. Anything longer would be rejected
// at hash time, so the policy bounds it up front.
const MaxLengthBytes = 72

// Guard validates passwords against the strength policy and performs
// hashing and verification.
type Guard struct {
	minLength  int
	bcryptCost int
}

// Option configures a Guard.
type Option func(*Guard)

// WithMinLength overrides the minimum password length, in characters.
func WithMinLength(n int) Option {
	return func(g *Guard) {
		g.minLength = n
	}
}

// WithBcryptCost sets the bcrypt cost for password hashing.
func WithBcryptCost(cost int) Option {
	return func(g *Guard) {
		g.bcryptCost = cost
	}
}

// New creates a credential guard with the reference policy.
func New(opts ...Option) *Guard {
	g := &Guard{
		minLength:  DefaultMinLength,
		bcryptCost: bcrypt.DefaultCost,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// CheckStrength rejects passwords outside the policy bounds. The minimum
// is counted in runes so multi-byte text is measured correctly; the
// maximum is counted in bytes because that is the limit bcrypt enforces.
func (g *Guard) CheckStrength(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if utf8.RuneCountInString(password) < g.minLength {
		return ErrWeakPassword
	}
	if len(password) > MaxLengthBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Hash derives a salted bcrypt hash from a plaintext password. Callers run
// CheckStrength first; Hash does not re-validate.
func (g *Guard) Hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Verify reports whether the plaintext password matches the stored hash.
func (g *Guard) Verify(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
