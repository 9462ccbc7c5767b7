package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/store/redis"
)

func newTestClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestStore_RoundTripWithPrefix(t *testing.T) {
	client, mr := newTestClient(t)
	store := redis.NewStore(client, "artisan:")
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	_, ok, err := store.Get(ctx, "artisan_inputs")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "artisan_inputs", []byte(`[]`)))
	assert.True(t, mr.Exists("artisan:artisan_inputs"), "keys are namespaced")

	got, ok, err := store.Get(ctx, "artisan_inputs")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, store.Delete(ctx, "artisan_inputs"))
	assert.False(t, mr.Exists("artisan:artisan_inputs"))
}

func TestStore_ServerDown_ReturnsError(t *testing.T) {
	client, mr := newTestClient(t)
	store := redis.NewStore(client, "")
	mr.Close()

	_, _, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestStore_BacksKVAdapter(t *testing.T) {
	client, _ := newTestClient(t)
	kv := generic.NewKV(redis.NewStore(client, "t:"), nil)
	ctx := context.Background()

	generic.Write(ctx, kv, "nums", []int{1, 2, 3})
	assert.Equal(t, []int{1, 2, 3}, generic.Read(ctx, kv, "nums", func() []int { return nil }))
}

func TestLocker_ExclusiveUntilReleased(t *testing.T) {
	client, mr := newTestClient(t)
	locker := redis.NewLocker(client, "lock:")
	locker.Attempts = 2
	locker.RetryDelay = 5 * time.Millisecond
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "settlement")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:settlement"))

	_, err = locker.Lock(ctx, "settlement")
	assert.ErrorIs(t, err, generic.ErrLockTimeout)
	assert.True(t, generic.IsRetryable(err))

	unlock()
	assert.False(t, mr.Exists("lock:settlement"))

	again, err := locker.Lock(ctx, "settlement")
	require.NoError(t, err)
	again()
}

func TestLocker_ExpiredLeaseIsNotReleasedByOldHolder(t *testing.T) {
	client, mr := newTestClient(t)
	locker := redis.NewLocker(client, "lock:")
	locker.TTL = time.Second
	locker.Attempts = 1
	ctx := context.Background()

	staleUnlock, err := locker.Lock(ctx, "settlement")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	freshUnlock, err := locker.Lock(ctx, "settlement")
	require.NoError(t, err)
	defer freshUnlock()

	staleUnlock()
	assert.True(t, mr.Exists("lock:settlement"), "stale holder must not free the new lease")
}

func TestLocker_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t)
	locker := redis.NewLocker(client, "lock:")
	locker.RetryDelay = time.Second

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
