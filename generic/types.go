/*
Package generic provides the domain-agnostic building blocks of the engine.

PURPOSE:
  Everything in here is independent of bakeries, breweries, or recipes.
  The production package builds the business rules on top of:
  - Store / KV: JSON collections persisted under string keys
  - Locker:     mutual exclusion around read-modify-write sequences
  - Period:     time windows for reports
  - Errors:     sentinel and structured errors shared by all packages

KEY CONCEPTS IN THIS FILE (types.go):
  - Identifiers: random UUIDv4 strings
  - Clock:       injectable "now" so tests can pin time
  - Decimal helpers: quantities and costs are decimal.Decimal, never float64

DESIGN PRINCIPLES:
  1. Precision: stock and cost use decimal.Decimal (2 kg x 3 is exactly 6)
  2. Fail-soft persistence: the KV adapter absorbs storage failures
  3. Explicit locking: concurrency safety is a Locker, not an accident

SEE ALSO:
  - kv.go: JSON adapter over a Store
  - store.go: Store and Locker interfaces
  - errors.go: error taxonomy
*/
package generic

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

// =============================================================================
// CLOCK
// =============================================================================

// Clock returns the current time. Services take a Clock so tests can pin it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Now calls c, falling back to the system clock when c is nil.
func (c Clock) Now() time.Time {
	if c == nil {
		return SystemClock()
	}
	return c()
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// DecPtr returns a pointer to a copy of d.
func DecPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
