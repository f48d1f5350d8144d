// Package session implements the server-side admin session collaborator:
// an opaque client-held token mapped to an authenticated flag with a TTL.
package session

import (
	"context"
	"sync"
	"time"

	"storefront/internal/redisclient"

	"github.com/google/uuid"
)

// Store issues, validates and revokes admin session tokens.
type Store interface {
	Issue(ctx context.Context) (string, error)
	Validate(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

// RedisStore keeps sessions in redis so they survive process restarts and
// expire server-side.
type RedisStore struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed session store
func NewRedisStore(client *redisclient.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Issue(ctx context.Context) (string, error) {
	token := uuid.New().String()
	if err := s.client.SaveSession(ctx, token, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Validate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return s.client.SessionExists(ctx, token)
}

func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	return s.client.DeleteSession(ctx, token)
}

// MemoryStore is an in-process session store for tests and local runs
// without redis.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]time.Time
	now      func() time.Time
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *MemoryStore) Issue(ctx context.Context) (string, error) {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = s.now().Add(s.ttl)
	return token, nil
}

func (s *MemoryStore) Validate(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false, nil
	}
	if s.now().After(expiry) {
		delete(s.sessions, token)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
