package production

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/artisan-engine/generic"
)

// =============================================================================
// INPUT - Raw material
// =============================================================================

// Input is a raw material tracked by stock and unit cost.
type Input struct {
	ID          InputID         `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Supplier    string          `json:"supplier,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IsLowStock reports whether stock has reached the minimum.
func (i Input) IsLowStock() bool {
	return i.Stock.LessThanOrEqual(i.MinStock)
}

// NewInput is the creation payload for an Input.
type NewInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Supplier    string          `json:"supplier,omitempty"`
}

func (n NewInput) Validate() error {
	var v generic.Validation
	v.Check(n.Name != "", "name", "is required")
	v.Check(n.Unit != "", "unit", "is required")
	checkNonNegative(&v, "stock", n.Stock)
	checkNonNegative(&v, "min_stock", n.MinStock)
	checkNonNegative(&v, "cost_per_unit", n.CostPerUnit)
	return v.Err()
}

// InputPatch updates the non-nil fields of an Input.
type InputPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	MinStock    *decimal.Decimal `json:"min_stock,omitempty"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit,omitempty"`
	Supplier    *string          `json:"supplier,omitempty"`
}

func (p InputPatch) Validate() error {
	var v generic.Validation
	if p.Name != nil {
		v.Check(*p.Name != "", "name", "must not be empty")
	}
	if p.Unit != nil {
		v.Check(*p.Unit != "", "unit", "must not be empty")
	}
	checkNonNegativePtr(&v, "min_stock", p.MinStock)
	checkNonNegativePtr(&v, "cost_per_unit", p.CostPerUnit)
	return v.Err()
}

func (p InputPatch) apply(in *Input) {
	setIf(&in.Name, p.Name)
	setIf(&in.Description, p.Description)
	setIf(&in.Unit, p.Unit)
	setIf(&in.MinStock, p.MinStock)
	setIf(&in.CostPerUnit, p.CostPerUnit)
	setIf(&in.Supplier, p.Supplier)
}

// =============================================================================
// INPUT REPOSITORY
// =============================================================================

// InputRepository manages the artisan_inputs collection.
type InputRepository struct {
	c     *collection[Input, InputID]
	clock generic.Clock
}

func newInputRepository(kv *generic.KV, locker generic.Locker, clock generic.Clock) *InputRepository {
	return &InputRepository{
		c:     newCollection(KeyInputs, kv, locker, func(i Input) InputID { return i.ID }),
		clock: clock,
	}
}

func (r *InputRepository) List(ctx context.Context) []Input {
	return r.c.list(ctx)
}

func (r *InputRepository) Get(ctx context.Context, id InputID) (Input, bool) {
	return r.c.find(ctx, id)
}

func (r *InputRepository) Create(ctx context.Context, n NewInput) (Input, error) {
	if err := n.Validate(); err != nil {
		return Input{}, err
	}
	in := Input{
		ID:          InputID(generic.NewID()),
		Name:        n.Name,
		Description: n.Description,
		Unit:        n.Unit,
		Stock:       n.Stock,
		MinStock:    n.MinStock,
		CostPerUnit: n.CostPerUnit,
		Supplier:    n.Supplier,
		CreatedAt:   r.clock.Now(),
	}
	if err := r.c.append(ctx, in); err != nil {
		return Input{}, err
	}
	return in, nil
}

func (r *InputRepository) Update(ctx context.Context, id InputID, p InputPatch) (Input, error) {
	if err := p.Validate(); err != nil {
		return Input{}, err
	}
	return r.c.update(ctx, id, func(in *Input) error {
		p.apply(in)
		return nil
	})
}

func (r *InputRepository) Delete(ctx context.Context, id InputID) error {
	return r.c.remove(ctx, id)
}

// LowStock returns inputs at or below their minimum.
func (r *InputRepository) LowStock(ctx context.Context) []Input {
	var out []Input
	for _, in := range r.List(ctx) {
		if in.IsLowStock() {
			out = append(out, in)
		}
	}
	return out
}

// =============================================================================
// PATCH / VALIDATION HELPERS
// =============================================================================

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func checkNonNegative(v *generic.Validation, field string, d decimal.Decimal) {
	v.Check(!d.IsNegative(), field, "must not be negative")
}

func checkNonNegativePtr(v *generic.Validation, field string, d *decimal.Decimal) {
	if d != nil {
		checkNonNegative(v, field, *d)
	}
}
