package session

import "time"

// Config holds session lifetime configuration.
type Config struct {
	// CookieName is the name of the session cookie (default: "sid").
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	AnonIdleTimeout time.Duration `env:"SESSION_ANON_IDLE_TIMEOUT" envDefault:"30m"`
	AnonMaxLifetime time.Duration `env:"SESSION_ANON_MAX_LIFETIME" envDefault:"24h"`

	AuthIdleTimeout time.Duration `env:"SESSION_AUTH_IDLE_TIMEOUT" envDefault:"2h"`
	AuthMaxLifetime time.Duration `env:"SESSION_AUTH_MAX_LIFETIME" envDefault:"720h"`

	// CleanupInterval for expired sessions in the memory store
	// (0 disables the sweeper).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	// SecureCookies enables the Secure flag on session cookies.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns the reference session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:      "sid",
		AnonIdleTimeout: 30 * time.Minute,
		AnonMaxLifetime: 24 * time.Hour,
		AuthIdleTimeout: 2 * time.Hour,
		AuthMaxLifetime: 30 * 24 * time.Hour,
		CleanupInterval: 5 * time.Minute,
	}
}

// Timeouts returns the idle and absolute lifetimes for a session in the
// given authentication phase.
func (c Config) Timeouts(authenticated bool) (idle, max time.Duration) {
	if authenticated {
		return c.AuthIdleTimeout, c.AuthMaxLifetime
	}
	return c.AnonIdleTimeout, c.AnonMaxLifetime
}
