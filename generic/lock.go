package generic

import (
	"context"
	"sync"
)

// =============================================================================
// MUTEX LOCKER - In-process Locker
// =============================================================================

// MutexLocker serializes callers within one process, one slot per key.
// Waiting respects ctx cancellation.
type MutexLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewMutexLocker() *MutexLocker {
	return &MutexLocker{slots: make(map[string]chan struct{})}
}

func (l *MutexLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// Lock takes key, blocking until it is free or ctx is done.
func (l *MutexLocker) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}
