// Package ledger tracks which webhook event ids have already been applied,
// so a redelivered completion event never double-decrements stock or sends
// a second notification.
package ledger

import (
	"context"
	"sync"
	"time"

	"storefront/internal/redisclient"
	"storefront/internal/store"
)

// Ledger claims event ids atomically. Claim returns true exactly once per
// event id; every later call for the same id returns false.
type Ledger interface {
	Claim(ctx context.Context, eventID, eventType string) (bool, error)
}

// RedisLedger claims events with SETNX. Keys carry a TTL well past the
// processor's redelivery window.
type RedisLedger struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedisLedger creates a redis-backed ledger
func NewRedisLedger(client *redisclient.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{client: client, ttl: ttl}
}

func (l *RedisLedger) Claim(ctx context.Context, eventID, eventType string) (bool, error) {
	return l.client.ClaimEvent(ctx, eventID, l.ttl)
}

// PostgresLedger claims events in the processed_events table, surviving
// both process and redis restarts.
type PostgresLedger struct {
	store *store.Store
}

// NewPostgresLedger creates a postgres-backed ledger
func NewPostgresLedger(s *store.Store) *PostgresLedger {
	return &PostgresLedger{store: s}
}

func (l *PostgresLedger) Claim(ctx context.Context, eventID, eventType string) (bool, error) {
	return l.store.ClaimEvent(ctx, eventID, eventType)
}

// MemoryLedger is an in-process ledger for tests and local runs.
type MemoryLedger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryLedger creates an in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{seen: make(map[string]struct{})}
}

func (l *MemoryLedger) Claim(ctx context.Context, eventID, eventType string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[eventID]; ok {
		return false, nil
	}
	l.seen[eventID] = struct{}{}
	return true, nil
}
