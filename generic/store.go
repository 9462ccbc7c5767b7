/*
store.go - Persistence and locking interfaces

PURPOSE:
  Defines the boundary between the engine and whatever holds the bytes.
  A Store is a dumb key-value map of raw documents. It knows nothing
  about JSON, entities, or defaults - that lives in the KV adapter.

KEY INTERFACES:
  Store:  Get / Set / Delete of raw documents under string keys
  Locker: named mutual exclusion for read-modify-write sequences

NO CROSS-KEY ATOMICITY:
  A Store never promises that writes to two keys land together. Callers
  that touch several keys (batch settlement) must validate everything
  before the first write, and hold a Locker key while doing it.

IMPLEMENTATIONS:
  - generic/store/memory.go: In-memory, for tests and ephemeral runs
  - store/sqlite/sqlite.go:  Embedded SQLite file (default)
  - store/redis/redis.go:    Redis, shareable between processes

SEE ALSO:
  - kv.go: JSON adapter using Store
  - lock.go: MutexLocker
*/
package generic

import "context"

// =============================================================================
// STORE - Raw document persistence
// =============================================================================

// Store persists raw documents under string keys.
type Store interface {
	// Get returns the document stored under key.
	// The bool is false when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous document.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// =============================================================================
// LOCKER - Mutual exclusion by name
// =============================================================================

// Locker hands out exclusive ownership of a named key.
// Lock blocks until the key is free, ctx is done, or the implementation
// gives up (ErrLockTimeout). The returned func releases the key.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
