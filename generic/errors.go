/*
errors.go - Centralized error types

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain code wraps these with context ("input 42: not found") and
  callers match with errors.Is / errors.As.

ERROR CATEGORIES:
  1. Lookup errors      - NotFound, BatchNotFound, RecipeNotFound
  2. Business rules     - InsufficientStock, InvalidTransition, InvalidQuantity
  3. Validation         - malformed creation/patch payloads
  4. Infrastructure     - Persistence (logged only), LockTimeout

PERSISTENCE FAILURES:
  ErrPersistence never reaches a caller of the domain API. The KV adapter
  tags log entries with it and falls back to defaults.

SEE ALSO:
  - kv.go: where ErrPersistence is absorbed
  - production/settlement.go: main producer of the structured errors
*/
package generic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when an entity id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBatchNotFound is returned by settlement when the batch id is unknown.
	ErrBatchNotFound = fmt.Errorf("batch %w", ErrNotFound)

	// ErrRecipeNotFound is returned by settlement when the batch's recipe is gone.
	ErrRecipeNotFound = fmt.Errorf("recipe %w", ErrNotFound)

	// ErrInsufficientStock is returned when a stock movement would go below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidTransition is returned when a batch cannot move to the requested status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidQuantity is returned for zero or negative multipliers and deltas.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrValidation is returned when a payload fails field validation.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence tags storage failures in logs. It is never returned by the domain API.
	ErrPersistence = errors.New("persistence failure")

	// ErrLockTimeout is returned when a Locker gives up waiting.
	ErrLockTimeout = errors.New("lock not acquired")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// Shortfall describes one stock line that cannot cover a requirement.
type Shortfall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Unit      string          `json:"unit"`
}

// Missing returns how much is lacking.
func (s Shortfall) Missing() decimal.Decimal {
	return s.Required.Sub(s.Available)
}

func (s Shortfall) String() string {
	return fmt.Sprintf("%s (required %s%s, available %s%s)",
		s.Name, s.Required, s.Unit, s.Available, s.Unit)
}

// InsufficientStockError names every line that is short.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		parts[i] = s.String()
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// TransitionError reports a refused status change.
type TransitionError struct {
	ID   string
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("batch %s: cannot move from %s to %s", e.ID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// FieldError is one failed field check.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError lists every failed field of a payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Description
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validation collects field errors. Err returns nil when nothing was added.
type Validation struct {
	fields []FieldError
}

// Add records a failed field.
func (v *Validation) Add(field, description string) {
	v.fields = append(v.fields, FieldError{Field: field, Description: description})
}

// Check records description when ok is false.
func (v *Validation) Check(ok bool, field, description string) {
	if !ok {
		v.Add(field, description)
	}
}

// Err returns a *ValidationError, or nil when every check passed.
func (v *Validation) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid caller input or state.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrValidation)
}

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout)
}
