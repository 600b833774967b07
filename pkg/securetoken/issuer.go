package securetoken

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/idfront/idfront/pkg/logger"
)

// Default TTLs per kind. Verification codes are short-lived because they
// are typed by hand; links tolerate a longer window.
const (
	DefaultEmailVerificationTTL = 15 * time.Minute
	DefaultMagicLinkTTL         = 1 * time.Hour
	DefaultPasswordResetTTL     = 1 * time.Hour
)

// Issuer mints, validates and consumes opaque single-use tokens against a
// Store. The same TTL table drives both validation and consumption.
type Issuer struct {
	store  Store
	ttls   map[Kind]time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithTTL overrides the lifetime for one token kind.
func WithTTL(kind Kind, ttl time.Duration) Option {
	return func(i *Issuer) {
		i.ttls[kind] = ttl
	}
}

// WithLogger sets a custom logger for the issuer.
func WithLogger(log *slog.Logger) Option {
	return func(i *Issuer) {
		i.logger = log
	}
}

// WithClock overrides the time source, used by expiry tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// New creates a token issuer backed by the given store.
func New(store Store, opts ...Option) *Issuer {
	i := &Issuer{
		store: store,
		ttls: map[Kind]time.Duration{
			KindEmailVerification: DefaultEmailVerificationTTL,
			KindMagicLink:         DefaultMagicLinkTTL,
			KindPasswordReset:     DefaultPasswordResetTTL,
		},
		logger: logger.Discard(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Issue mints a token of the given kind for the subject and persists its
// record. A previously issued live token of the same kind is not revoked.
func (i *Issuer) Issue(ctx context.Context, kind Kind, subject string) (Token, error) {
	ttl, ok := i.ttls[kind]
	if !ok {
		return Token{}, ErrUnknownKind
	}

	now := i.now()
	value := newValue()
	rec := Record{
		Digest:    digest(value),
		Kind:      kind,
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	if err := i.store.Save(ctx, rec); err != nil {
		return Token{}, fmt.Errorf("failed to save token record: %w", err)
	}

	i.logger.Debug("token issued",
		logger.TokenKind(string(kind)),
		slog.Time("expires_at", rec.ExpiresAt),
		logger.Component("securetoken"),
	)

	return Token{Value: value, Record: rec}, nil
}

// Validate looks up a token without mutating it. It returns
// ErrTokenNotFound, ErrTokenExpired or ErrTokenAlreadyUsed when the token
// is not consumable.
func (i *Issuer) Validate(ctx context.Context, kind Kind, value string) (Record, error) {
	rec, err := i.store.Find(ctx, kind, digest(normalizeValue(value)))
	if err != nil {
		return Record{}, err
	}

	// Expired wins over consumed: a token past its lifetime is reported
	// invalid regardless of consumption state.
	if !i.now().Before(rec.ExpiresAt) {
		return Record{}, ErrTokenExpired
	}
	if rec.ConsumedAt != nil {
		return Record{}, ErrTokenAlreadyUsed
	}

	return rec, nil
}

// Consume validates the token and atomically stamps it consumed. Under
// concurrent attempts on the same token, the first wins and the rest
// observe ErrTokenAlreadyUsed.
func (i *Issuer) Consume(ctx context.Context, kind Kind, value string) (Record, error) {
	rec, err := i.store.Consume(ctx, kind, digest(normalizeValue(value)), i.now())
	if err != nil {
		return Record{}, err
	}

	i.logger.Debug("token consumed",
		logger.TokenKind(string(kind)),
		logger.Component("securetoken"),
	)

	return rec, nil
}
