package inventory

import (
	"errors"
	"sync"
)

var (
	ErrUnknownColor     = errors.New("unknown color")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// Store holds the per-color stock counts. All mutation goes through the
// store's lock so the admin overwrite path and the webhook deduction path
// cannot lose updates to each other.
type Store struct {
	mu    sync.RWMutex
	stock map[string]int
}

// NewStore creates a store seeded with the given counts. The color set is
// fixed to the keys of initial; Set and Deduct reject anything else.
func NewStore(initial map[string]int) *Store {
	stock := make(map[string]int, len(initial))
	for color, qty := range initial {
		stock[color] = qty
	}
	return &Store{stock: stock}
}

// Snapshot returns a copy of the current stock counts.
func (s *Store) Snapshot() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.stock))
	for color, qty := range s.stock {
		out[color] = qty
	}
	return out
}

// Available returns the current count for a color.
func (s *Store) Available(color string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	qty, ok := s.stock[color]
	if !ok {
		return 0, ErrUnknownColor
	}
	return qty, nil
}

// Set overwrites the count for a color.
func (s *Store) Set(color string, qty int) error {
	if qty < 0 {
		return ErrNegativeQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stock[color]; !ok {
		return ErrUnknownColor
	}
	s.stock[color] = qty
	return nil
}

// Deduct subtracts qty from a color's count, clamping at zero. It returns
// the amount actually deducted so callers can detect a shortfall.
func (s *Store) Deduct(color string, qty int) (int, error) {
	if qty < 0 {
		return 0, ErrNegativeQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.stock[color]
	if !ok {
		return 0, ErrUnknownColor
	}

	applied := qty
	if applied > current {
		applied = current
	}
	s.stock[color] = current - applied
	return applied, nil
}
