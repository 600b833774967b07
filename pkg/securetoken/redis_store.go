package securetoken

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// expiredRetention keeps records readable after expiry so lookups can
// report ErrTokenExpired instead of ErrTokenNotFound, then lets Redis
// reclaim the key.
const expiredRetention = 24 * time.Hour

// RedisStore implements Store on a Redis hash per token. Consumption
// atomicity relies on HSETNX: only one caller ever writes consumed_at.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix overrides the default "securetoken" key prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.keyPrefix = prefix
	}
}

// NewRedisStore creates a token store backed by the given Redis client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		keyPrefix: "securetoken",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RedisStore) key(kind Kind, digest string) string {
	return fmt.Sprintf("%s:%s:%s", s.keyPrefix, kind, digest)
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	key := s.key(rec.Kind, rec.Digest)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"subject":    rec.Subject,
		"issued_at":  rec.IssuedAt.UTC().Format(time.RFC3339Nano),
		"expires_at": rec.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
	pipe.ExpireAt(ctx, key, rec.ExpiresAt.Add(expiredRetention))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save token record: %w", err)
	}

	return nil
}

func (s *RedisStore) Find(ctx context.Context, kind Kind, digest string) (Record, error) {
	fields, err := s.client.HGetAll(ctx, s.key(kind, digest)).Result()
	if err != nil {
		return Record{}, fmt.Errorf("failed to load token record: %w", err)
	}
	if len(fields) == 0 {
		return Record{}, ErrTokenNotFound
	}

	return recordFromFields(kind, digest, fields)
}

func (s *RedisStore) Consume(ctx context.Context, kind Kind, digest string, at time.Time) (Record, error) {
	key := s.key(kind, digest)

	rec, err := s.Find(ctx, kind, digest)
	if err != nil {
		return Record{}, err
	}
	if !at.Before(rec.ExpiresAt) {
		return Record{}, ErrTokenExpired
	}

	// HSETNX is the single writer: the first caller to set consumed_at
	// wins, every later caller sees the field already present.
	won, err := s.client.HSetNX(ctx, key, "consumed_at", at.UTC().Format(time.RFC3339Nano)).Result()
	if err != nil {
		return Record{}, fmt.Errorf("failed to consume token: %w", err)
	}
	if !won {
		return Record{}, ErrTokenAlreadyUsed
	}

	consumedAt := at
	rec.ConsumedAt = &consumedAt
	return rec, nil
}

func recordFromFields(kind Kind, digest string, fields map[string]string) (Record, error) {
	issuedAt, err := time.Parse(time.RFC3339Nano, fields["issued_at"])
	if err != nil {
		return Record{}, fmt.Errorf("malformed issued_at in token record: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expires_at"])
	if err != nil {
		return Record{}, fmt.Errorf("malformed expires_at in token record: %w", err)
	}

	rec := Record{
		Digest:    digest,
		Kind:      kind,
		Subject:   fields["subject"],
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}

	if raw, ok := fields["consumed_at"]; ok {
		consumedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Record{}, fmt.Errorf("malformed consumed_at in token record: %w", err)
		}
		rec.ConsumedAt = &consumedAt
	}

	// Already-consumed records are still returned as records; the issuer
	// decides what errors to surface.
	return rec, nil
}
