package inventory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(map[string]int{"Red": 10, "Blue": 10})
}

func TestSnapshotCopies(t *testing.T) {
	s := newTestStore()

	snap := s.Snapshot()
	snap["Red"] = 0

	qty, err := s.Available("Red")
	require.NoError(t, err)
	assert.Equal(t, 10, qty)
}

func TestSetUnknownColor(t *testing.T) {
	s := newTestStore()

	err := s.Set("Purple", 5)
	assert.ErrorIs(t, err, ErrUnknownColor)
	assert.Equal(t, map[string]int{"Red": 10, "Blue": 10}, s.Snapshot())
}

func TestSetNegativeQuantity(t *testing.T) {
	s := newTestStore()

	err := s.Set("Red", -1)
	assert.ErrorIs(t, err, ErrNegativeQuantity)

	qty, err := s.Available("Red")
	require.NoError(t, err)
	assert.Equal(t, 10, qty)
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.Set("Red", 42))

	qty, err := s.Available("Red")
	require.NoError(t, err)
	assert.Equal(t, 42, qty)
}

func TestDeduct(t *testing.T) {
	s := newTestStore()

	applied, err := s.Deduct("Blue", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, applied)

	qty, err := s.Available("Blue")
	require.NoError(t, err)
	assert.Equal(t, 7, qty)
}

func TestDeductClampsAtZero(t *testing.T) {
	s := newTestStore()

	applied, err := s.Deduct("Red", 25)
	require.NoError(t, err)
	assert.Equal(t, 10, applied)

	qty, err := s.Available("Red")
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

func TestDeductUnknownColor(t *testing.T) {
	s := newTestStore()

	_, err := s.Deduct("Purple", 1)
	assert.ErrorIs(t, err, ErrUnknownColor)
}

func TestConcurrentDeducts(t *testing.T) {
	s := NewStore(map[string]int{"Red": 1000})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Deduct("Red", 1)
		}()
	}
	wg.Wait()

	qty, err := s.Available("Red")
	require.NoError(t, err)
	assert.Equal(t, 900, qty)
}
