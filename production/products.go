package production

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/artisan-engine/generic"
)

// =============================================================================
// PRODUCT - Finished good
// =============================================================================

// Product is a finished good. CostPerUnit may stay zero; recipes carry the real cost.
type Product struct {
	ID          ProductID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p Product) IsLowStock() bool {
	return p.Stock.LessThanOrEqual(p.MinStock)
}

type NewProduct struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
}

func (n NewProduct) Validate() error {
	var v generic.Validation
	v.Check(n.Name != "", "name", "is required")
	v.Check(n.Unit != "", "unit", "is required")
	checkNonNegative(&v, "stock", n.Stock)
	checkNonNegative(&v, "min_stock", n.MinStock)
	checkNonNegative(&v, "cost_per_unit", n.CostPerUnit)
	return v.Err()
}

type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	MinStock    *decimal.Decimal `json:"min_stock,omitempty"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit,omitempty"`
}

func (p ProductPatch) Validate() error {
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

func (p ProductPatch) apply(pr *Product) {
	setIf(&pr.Name, p.Name)
	setIf(&pr.Description, p.Description)
	setIf(&pr.Unit, p.Unit)
	setIf(&pr.MinStock, p.MinStock)
	setIf(&pr.CostPerUnit, p.CostPerUnit)
}

// =============================================================================
// PRODUCT REPOSITORY
// =============================================================================

// ProductRepository manages the artisan_products collection.
type ProductRepository struct {
	c     *collection[Product, ProductID]
	clock generic.Clock
}

func newProductRepository(kv *generic.KV, locker generic.Locker, clock generic.Clock) *ProductRepository {
	return &ProductRepository{
		c:     newCollection(KeyProducts, kv, locker, func(p Product) ProductID { return p.ID }),
		clock: clock,
	}
}

func (r *ProductRepository) List(ctx context.Context) []Product {
	return r.c.list(ctx)
}

func (r *ProductRepository) Get(ctx context.Context, id ProductID) (Product, bool) {
	return r.c.find(ctx, id)
}

func (r *ProductRepository) Create(ctx context.Context, n NewProduct) (Product, error) {
	if err := n.Validate(); err != nil {
		return Product{}, err
	}
	p := Product{
		ID:          ProductID(generic.NewID()),
		Name:        n.Name,
		Description: n.Description,
		Unit:        n.Unit,
		Stock:       n.Stock,
		MinStock:    n.MinStock,
		CostPerUnit: n.CostPerUnit,
		CreatedAt:   r.clock.Now(),
	}
	if err := r.c.append(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, id ProductID, p ProductPatch) (Product, error) {
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return r.c.update(ctx, id, func(pr *Product) error {
		p.apply(pr)
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id ProductID) error {
	return r.c.remove(ctx, id)
}

func (r *ProductRepository) LowStock(ctx context.Context) []Product {
	var out []Product
	for _, p := range r.List(ctx) {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}
