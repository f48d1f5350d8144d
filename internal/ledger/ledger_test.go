package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerClaimOnce(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	fresh, err := l.Claim(ctx, "evt_1", "checkout.session.completed")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = l.Claim(ctx, "evt_1", "checkout.session.completed")
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = l.Claim(ctx, "evt_2", "checkout.session.completed")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestMemoryLedgerConcurrentClaims(t *testing.T) {
	l := NewMemoryLedger()

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh, err := l.Claim(context.Background(), "evt_race", "checkout.session.completed")
			if !assert.NoError(t, err) {
				return
			}
			if fresh {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "exactly one claim may win")
}
