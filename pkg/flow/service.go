package flow

import (
	"context"
	"log/slog"
	"time"

	"github.com/idfront/idfront/pkg/logger"
	"github.com/idfront/idfront/pkg/mailer"
	"github.com/idfront/idfront/pkg/securetoken"
)

// TokenIssuer mints and consumes the single-use tokens backing the flows.
// Implemented by securetoken.Issuer.
type TokenIssuer interface {
	Issue(ctx context.Context, kind securetoken.Kind, subject string) (securetoken.Token, error)
	Validate(ctx context.Context, kind securetoken.Kind, value string) (securetoken.Record, error)
	Consume(ctx context.Context, kind securetoken.Kind, value string) (securetoken.Record, error)
}

// CredentialGuard validates password strength and handles hashing.
// Implemented by credentials.Guard.
type CredentialGuard interface {
	CheckStrength(password string) error
	Hash(password string) ([]byte, error)
	Verify(password string, hash []byte) bool
}

// MailDispatcher delivers transactional mail. Implemented by
// mailer.Dispatcher. Delivery is best-effort; the flows never block on it.
type MailDispatcher interface {
	Send(ctx context.Context, kind mailer.Kind, recipient string, payload mailer.Payload) error
}

// Service is the flow orchestrator. Every operation takes the current
// SessionState and returns the next one with a Result; a non-nil error
// means an unexpected collaborator failure and leaves the state unchanged.
type Service struct {
	users     UserStore
	tokens    TokenIssuer
	passwords CredentialGuard
	mail      MailDispatcher
	logger    *slog.Logger
	now       func() time.Time

	mailTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithMailDispatcher wires outbound email. Without it, flows still issue
// tokens and succeed; nothing is delivered (useful in tests).
func WithMailDispatcher(mail MailDispatcher) Option {
	return func(s *Service) {
		s.mail = mail
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.logger = log
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMailTimeout bounds each background mail dispatch.
func WithMailTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.mailTimeout = d
	}
}

// New creates the flow orchestrator.
func New(users UserStore, tokens TokenIssuer, passwords CredentialGuard, opts ...Option) *Service {
	s := &Service{
		users:       users,
		tokens:      tokens,
		passwords:   passwords,
		logger:      logger.Discard(),
		now:         time.Now,
		mailTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// dispatchMail sends in the background. Failures are logged and swallowed:
// email delivery is never on the critical path of a state transition.
func (s *Service) dispatchMail(kind mailer.Kind, recipient string, payload mailer.Payload) {
	if s.mail == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("mail dispatch panicked",
					slog.Any("panic", r),
					logger.MailKind(string(kind)),
					logger.Component("flow"),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.mailTimeout)
		defer cancel()

		if err := s.mail.Send(ctx, kind, recipient, payload); err != nil {
			s.logger.Error("mail dispatch failed",
				logger.MailKind(string(kind)),
				logger.Error(err),
				logger.Component("flow"),
			)
		}
	}()
}
