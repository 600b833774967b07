package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis, one JSON value per session keyed
// by token. The key TTL tracks the absolute deadline, so DeleteExpired is
// a no-op and Redis does the sweeping.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix overrides the default "session" key prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.keyPrefix = prefix
	}
}

// NewRedisStore creates a session store backed by the given Redis client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		keyPrefix: "session",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RedisStore) key(token string) string {
	return s.keyPrefix + ":" + token
}

func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	return s.write(ctx, session)
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("malformed session record: %w", err)
	}

	if session.IsExpired(time.Now()) {
		_ = s.client.Del(ctx, s.key(token)).Err()
		return nil, ErrSessionExpired
	}

	return &session, nil
}

func (s *RedisStore) Update(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	exists, err := s.client.Exists(ctx, s.key(session.Token)).Result()
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if exists == 0 {
		return ErrSessionNotFound
	}

	return s.write(ctx, session)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: key TTLs already bound every session's
// lifetime.
func (s *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}

func (s *RedisStore) write(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(session.Token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}
