package generic_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/artisan-engine/generic"
)

func TestMutexLocker_SerializesSameKey(t *testing.T) {
	locker := generic.NewMutexLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "settlement")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestMutexLocker_DifferentKeysDoNotBlock(t *testing.T) {
	locker := generic.NewMutexLocker()
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	ctx2, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	unlockB, err := locker.Lock(ctx2, "b")
	require.NoError(t, err)
	unlockB()
}

func TestMutexLocker_RespectsContext(t *testing.T) {
	locker := generic.NewMutexLocker()

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMutexLocker_UnlockIsIdempotent(t *testing.T) {
	locker := generic.NewMutexLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "k")
	require.NoError(t, err)
	unlock()
	unlock()

	again, err := locker.Lock(ctx, "k")
	require.NoError(t, err)
	again()
}
