package production

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/artisan-engine/generic"
)

// =============================================================================
// BATCH STATUS - State machine
// =============================================================================

// BatchStatus is the lifecycle state of a production batch.
//
//	planned -> in_progress -> completed
//	planned | in_progress  -> cancelled
//	planned                -> completed   (complete without starting)
//
// completed and cancelled are terminal.
type BatchStatus string

const (
	StatusPlanned    BatchStatus = "planned"
	StatusInProgress BatchStatus = "in_progress"
	StatusCompleted  BatchStatus = "completed"
	StatusCancelled  BatchStatus = "cancelled"
)

var batchTransitions = map[BatchStatus][]BatchStatus{
	StatusPlanned:    {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether a batch in s may move to next.
func (s BatchStatus) CanTransitionTo(next BatchStatus) bool {
	for _, allowed := range batchTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true for completed and cancelled.
func (s BatchStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is one of the four known statuses.
func (s BatchStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// =============================================================================
// BATCH
// =============================================================================

// Batch is one production run of a recipe, scaled by Quantity.
type Batch struct {
	ID             BatchID     `json:"id"`
	RecipeID       RecipeID    `json:"recipe_id"`
	BatchNumber    string      `json:"batch_number"`
	Quantity       int         `json:"quantity"`
	Status         BatchStatus `json:"status"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	StartDate      *time.Time  `json:"start_date,omitempty"`
	CompletionDate *time.Time  `json:"completion_date,omitempty"`
}

// IsActive returns true while the batch can still be completed or cancelled.
func (b Batch) IsActive() bool {
	return !b.Status.IsTerminal()
}

// NewBatch is the creation payload. New batches always start planned.
type NewBatch struct {
	RecipeID RecipeID `json:"recipe_id"`
	Quantity int      `json:"quantity"`
	Notes    string   `json:"notes,omitempty"`
}

func (n NewBatch) Validate() error {
	var v generic.Validation
	v.Check(n.RecipeID != "", "recipe_id", "is required")
	v.Check(n.Quantity >= 1, "quantity", "must be at least 1")
	return v.Err()
}

// BatchPatch edits a batch. Status is deliberately absent: it only moves
// through Start, Complete, and Cancel.
type BatchPatch struct {
	RecipeID *RecipeID `json:"recipe_id,omitempty"`
	Quantity *int      `json:"quantity,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
}

func (p BatchPatch) Validate() error {
	var v generic.Validation
	if p.RecipeID != nil {
		v.Check(*p.RecipeID != "", "recipe_id", "must not be empty")
	}
	if p.Quantity != nil {
		v.Check(*p.Quantity >= 1, "quantity", "must be at least 1")
	}
	return v.Err()
}

// =============================================================================
// BATCH REPOSITORY
// =============================================================================

// BatchRepository manages the artisan_batches collection.
type BatchRepository struct {
	c     *collection[Batch, BatchID]
	clock generic.Clock
}

func newBatchRepository(kv *generic.KV, locker generic.Locker, clock generic.Clock) *BatchRepository {
	return &BatchRepository{
		c:     newCollection(KeyBatches, kv, locker, func(b Batch) BatchID { return b.ID }),
		clock: clock,
	}
}

func (r *BatchRepository) List(ctx context.Context) []Batch {
	return r.c.list(ctx)
}

// ListByStatus returns the batches in status. An empty status lists all.
func (r *BatchRepository) ListByStatus(ctx context.Context, status BatchStatus) ([]Batch, error) {
	if status == "" {
		return r.List(ctx), nil
	}
	var v generic.Validation
	v.Check(status.Valid(), "status", "must be planned, in_progress, completed or cancelled")
	if err := v.Err(); err != nil {
		return nil, err
	}
	out := []Batch{}
	for _, b := range r.List(ctx) {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BatchRepository) Get(ctx context.Context, id BatchID) (Batch, bool) {
	return r.c.find(ctx, id)
}

// Create stores a planned batch numbered LOT-<unix millis>.
func (r *BatchRepository) Create(ctx context.Context, n NewBatch) (Batch, error) {
	if err := n.Validate(); err != nil {
		return Batch{}, err
	}
	now := r.clock.Now()
	b := Batch{
		ID:          BatchID(generic.NewID()),
		RecipeID:    n.RecipeID,
		BatchNumber: fmt.Sprintf("LOT-%d", now.UnixMilli()),
		Quantity:    n.Quantity,
		Status:      StatusPlanned,
		Notes:       n.Notes,
		CreatedAt:   now,
	}
	if err := r.c.append(ctx, b); err != nil {
		return Batch{}, err
	}
	return b, nil
}

// Update edits notes freely. Recipe and quantity are frozen once the batch
// is terminal, since they no longer describe what was settled.
func (r *BatchRepository) Update(ctx context.Context, id BatchID, p BatchPatch) (Batch, error) {
	if err := p.Validate(); err != nil {
		return Batch{}, err
	}
	return r.c.update(ctx, id, func(b *Batch) error {
		if b.Status.IsTerminal() {
			var v generic.Validation
			v.Check(p.RecipeID == nil, "recipe_id", "cannot change on a "+string(b.Status)+" batch")
			v.Check(p.Quantity == nil, "quantity", "cannot change on a "+string(b.Status)+" batch")
			if err := v.Err(); err != nil {
				return err
			}
		}
		setIf(&b.RecipeID, p.RecipeID)
		setIf(&b.Quantity, p.Quantity)
		setIf(&b.Notes, p.Notes)
		return nil
	})
}

func (r *BatchRepository) Delete(ctx context.Context, id BatchID) error {
	return r.c.remove(ctx, id)
}

// transition moves a batch to next, stamping the matching date.
func (r *BatchRepository) transition(ctx context.Context, id BatchID, next BatchStatus) (Batch, error) {
	b, err := r.c.update(ctx, id, func(b *Batch) error {
		if !b.Status.CanTransitionTo(next) {
			return &generic.TransitionError{ID: string(b.ID), From: string(b.Status), To: string(next)}
		}
		now := r.clock.Now()
		b.Status = next
		switch next {
		case StatusInProgress:
			b.StartDate = &now
		case StatusCompleted:
			b.CompletionDate = &now
		}
		return nil
	})
	if generic.IsNotFound(err) {
		return Batch{}, fmt.Errorf("%w: %s", generic.ErrBatchNotFound, id)
	}
	return b, err
}
