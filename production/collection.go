package production

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp/artisan-engine/generic"
)

// =============================================================================
// COLLECTION - Whole-array repository over one KV key
// =============================================================================

// collection is the shared implementation behind every typed repository.
// Reads go straight to the KV adapter. Every read-modify-write holds the
// Locker key "collection:<key>" so concurrent writers cannot lose updates.
type collection[T any, ID ~string] struct {
	key    string
	kv     *generic.KV
	locker generic.Locker
	id     func(T) ID
}

func newCollection[T any, ID ~string](key string, kv *generic.KV, locker generic.Locker, id func(T) ID) *collection[T, ID] {
	return &collection[T, ID]{key: key, kv: kv, locker: locker, id: id}
}

func (c *collection[T, ID]) list(ctx context.Context) []T {
	return generic.Read(ctx, c.kv, c.key, func() []T { return []T{} })
}

func (c *collection[T, ID]) find(ctx context.Context, id ID) (T, bool) {
	for _, item := range c.list(ctx) {
		if c.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// mutate runs fn over the current items under the collection lock and
// persists what it returns. Nothing is written when fn fails.
func (c *collection[T, ID]) mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	unlock, err := c.locker.Lock(ctx, "collection:"+c.key)
	if err != nil {
		return fmt.Errorf("%s: %w", c.key, err)
	}
	defer unlock()

	items, err := fn(c.list(ctx))
	if err != nil {
		return err
	}
	generic.Write(ctx, c.kv, c.key, items)
	return nil
}

func (c *collection[T, ID]) append(ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return nil
	}
	return c.mutate(ctx, func(current []T) ([]T, error) {
		return append(current, items...), nil
	})
}

// update applies fn to the item with id and returns the stored result.
func (c *collection[T, ID]) update(ctx context.Context, id ID, fn func(*T) error) (T, error) {
	var out T
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if c.id(items[i]) != id {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, err
			}
			out = items[i]
			return items, nil
		}
		return nil, fmt.Errorf("%s %s: %w", c.key, id, generic.ErrNotFound)
	})
	return out, err
}

func (c *collection[T, ID]) remove(ctx context.Context, id ID) error {
	return c.mutate(ctx, func(items []T) ([]T, error) {
		kept := items[:0]
		for _, item := range items {
			if c.id(item) != id {
				kept = append(kept, item)
			}
		}
		if len(kept) == len(items) {
			return nil, fmt.Errorf("%s %s: %w", c.key, id, generic.ErrNotFound)
		}
		return kept, nil
	})
}

var errCollectionNotEmpty = errors.New("collection not empty")

// seed stores items only while the collection is empty and reports
// whether it wrote them.
func (c *collection[T, ID]) seed(ctx context.Context, items []T) (bool, error) {
	err := c.mutate(ctx, func(current []T) ([]T, error) {
		if len(current) > 0 {
			return nil, errCollectionNotEmpty
		}
		return items, nil
	})
	if errors.Is(err, errCollectionNotEmpty) {
		return false, nil
	}
	return err == nil, err
}
