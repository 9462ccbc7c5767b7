/*
kv.go - JSON key-value adapter

PURPOSE:
  The single place where persistence failure is absorbed. Everything
  above this file sees either a decoded value or a default; everything
  below it sees raw bytes.

CONTRACT:
  Read(key, default):
    - key absent          -> default()
    - backend error       -> default(), logged
    - malformed document  -> default(), logged
  Write(key, value):
    - encode + Set; any failure is logged, never returned

  Defaults are passed as constructors (func() T) so every caller gets a
  fresh value. Two readers of an empty collection never share a slice.

EXAMPLE:
  kv := generic.NewKV(store, logger)
  inputs := generic.Read(ctx, kv, "artisan_inputs", func() []Input { return []Input{} })
  inputs = append(inputs, in)
  generic.Write(ctx, kv, "artisan_inputs", inputs)
*/
package generic

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// KV reads and writes JSON documents through a Store.
type KV struct {
	store Store
	log   *zap.Logger
}

// NewKV wraps store. A nil logger discards failure reports.
func NewKV(store Store, log *zap.Logger) *KV {
	if log == nil {
		log = zap.NewNop()
	}
	return &KV{store: store, log: log.Named("kv")}
}

// Read decodes the document under key into a T.
// It returns def() when the key is absent or anything goes wrong.
func Read[T any](ctx context.Context, kv *KV, key string, def func() T) T {
	raw, ok, err := kv.store.Get(ctx, key)
	if err != nil {
		kv.log.Error("read failed, using default",
			zap.String("key", key),
			zap.Error(fmt.Errorf("%w: %v", ErrPersistence, err)))
		return def()
	}
	if !ok || len(raw) == 0 {
		return def()
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		kv.log.Error("corrupt document, using default",
			zap.String("key", key),
			zap.Error(fmt.Errorf("%w: %v", ErrPersistence, err)))
		return def()
	}
	return out
}

// Write encodes value and stores it under key, overwriting what was there.
// Failures are logged and swallowed.
func Write[T any](ctx context.Context, kv *KV, key string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		kv.log.Error("encode failed, write dropped",
			zap.String("key", key),
			zap.Error(fmt.Errorf("%w: %v", ErrPersistence, err)))
		return
	}
	if err := kv.store.Set(ctx, key, raw); err != nil {
		kv.log.Error("write failed",
			zap.String("key", key),
			zap.Int("bytes", len(raw)),
			zap.Error(fmt.Errorf("%w: %v", ErrPersistence, err)))
	}
}

// Clear removes every key. Failures are logged per key.
func (kv *KV) Clear(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := kv.store.Delete(ctx, key); err != nil {
			kv.log.Error("delete failed",
				zap.String("key", key),
				zap.Error(fmt.Errorf("%w: %v", ErrPersistence, err)))
		}
	}
}
