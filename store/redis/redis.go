/*
Package redis provides a Redis-backed generic.Store and generic.Locker.

PURPOSE:
  Lets several processes (two API servers, a CLI next to a server) share
  one set of collections. Sharing is exactly when the settlement engine's
  check-then-commit sequence needs a real lock, so this package ships
  both halves:

  Store:  one Redis string per collection, namespaced by a key prefix
  Locker: SET NX PX with a random token, bounded retries, and a
          compare-and-delete release so a slow holder whose lease
          expired cannot free someone else's lock

LOCK LEASES:
  Every lock carries a TTL. A crashed holder stops blocking others after
  the TTL; a holder that outlives its TTL loses exclusivity. Keep the TTL
  well above the slowest settlement.

USAGE:
  client := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
  store := redis.NewStore(client, "artisan:")
  locker := redis.NewLocker(client, "artisan:lock:")

SEE ALSO:
  - generic/store.go: Store and Locker interfaces
  - production/service.go: where the locks are taken
*/
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/warp/artisan-engine/generic"
)

// =============================================================================
// STORE
// =============================================================================

// Store implements generic.Store on Redis strings.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

// NewStore namespaces every key with prefix.
func NewStore(client goredis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return raw, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// =============================================================================
// LOCKER
// =============================================================================

// releaseScript deletes the lock only if we still own it.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements generic.Locker with Redis leases.
type Locker struct {
	client goredis.UniversalClient
	prefix string

	TTL        time.Duration // lease length
	Attempts   int           // tries before ErrLockTimeout
	RetryDelay time.Duration // pause between tries
}

// NewLocker returns a Locker with a 10s lease and 50 tries 100ms apart.
func NewLocker(client goredis.UniversalClient, prefix string) *Locker {
	return &Locker{
		client:     client,
		prefix:     prefix,
		TTL:        10 * time.Second,
		Attempts:   50,
		RetryDelay: 100 * time.Millisecond,
	}
}

// Lock acquires key or fails with generic.ErrLockTimeout / ctx.Err().
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := l.prefix + key
	token := uuid.NewString()

	attempts := l.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %q: %w", key, err)
		}
		if ok {
			return func() {
				// Background context: release even if the caller's ctx is done.
				releaseScript.Run(context.Background(), l.client, []string{lockKey}, token)
			}, nil
		}

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.RetryDelay):
		}
	}

	return nil, fmt.Errorf("%w: %s", generic.ErrLockTimeout, key)
}
