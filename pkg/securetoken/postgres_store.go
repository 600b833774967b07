package securetoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on the security_tokens table (see
// pkg/pg migrations). Consumption atomicity comes from a conditional
// UPDATE with the unconsumed state as precondition.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a token store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	const q = `
		INSERT INTO security_tokens (token_digest, kind, subject, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := s.pool.Exec(ctx, q, rec.Digest, string(rec.Kind), rec.Subject, rec.IssuedAt, rec.ExpiresAt); err != nil {
		return fmt.Errorf("failed to save token record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, kind Kind, digest string) (Record, error) {
	const q = `
		SELECT subject, issued_at, expires_at, consumed_at
		FROM security_tokens
		WHERE kind = $1 AND token_digest = $2`

	rec := Record{Digest: digest, Kind: kind}
	err := s.pool.QueryRow(ctx, q, string(kind), digest).
		Scan(&rec.Subject, &rec.IssuedAt, &rec.ExpiresAt, &rec.ConsumedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrTokenNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load token record: %w", err)
	}

	return rec, nil
}

func (s *PostgresStore) Consume(ctx context.Context, kind Kind, digest string, at time.Time) (Record, error) {
	const q = `
		UPDATE security_tokens
		SET consumed_at = $3
		WHERE kind = $1 AND token_digest = $2
		  AND consumed_at IS NULL
		  AND expires_at > $3
		RETURNING subject, issued_at, expires_at, consumed_at`

	rec := Record{Digest: digest, Kind: kind}
	err := s.pool.QueryRow(ctx, q, string(kind), digest, at).
		Scan(&rec.Subject, &rec.IssuedAt, &rec.ExpiresAt, &rec.ConsumedAt)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Record{}, fmt.Errorf("failed to consume token: %w", err)
	}

	// No row updated: re-read to report why the token was not consumable.
	existing, ferr := s.Find(ctx, kind, digest)
	if ferr != nil {
		return Record{}, ferr
	}
	if !at.Before(existing.ExpiresAt) {
		return Record{}, ErrTokenExpired
	}
	return Record{}, ErrTokenAlreadyUsed
}

// PurgeExpired removes records past their expiry plus the given retention.
func (s *PostgresStore) PurgeExpired(ctx context.Context, retention time.Duration) error {
	const q = `DELETE FROM security_tokens WHERE expires_at < $1`

	if _, err := s.pool.Exec(ctx, q, time.Now().Add(-retention)); err != nil {
		return fmt.Errorf("failed to purge expired tokens: %w", err)
	}
	return nil
}
