package production

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/artisan-engine/generic"
)

// =============================================================================
// STOCK TRANSACTION - Append-only ledger entry
// =============================================================================

// TransactionType classifies a stock movement.
type TransactionType string

const (
	TxInputPurchase     TransactionType = "input_purchase"
	TxInputConsumption  TransactionType = "input_consumption"
	TxProductProduction TransactionType = "product_production"
	TxProductSale       TransactionType = "product_sale"
	TxAdjustment        TransactionType = "adjustment"
)

// StockTransaction records one signed change to one input or one product.
// Exactly one of InputID / ProductID is set. Entries are never modified.
type StockTransaction struct {
	ID          TransactionID    `json:"id"`
	Type        TransactionType  `json:"type"`
	ReferenceID BatchID          `json:"reference_id,omitempty"`
	InputID     InputID          `json:"input_id,omitempty"`
	ProductID   ProductID        `json:"product_id,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost   *decimal.Decimal `json:"total_cost,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// TransactionFilter narrows List. Zero fields match everything.
type TransactionFilter struct {
	InputID     InputID
	ProductID   ProductID
	ReferenceID BatchID
	Type        TransactionType
}

func (f TransactionFilter) matches(tx StockTransaction) bool {
	if f.InputID != "" && tx.InputID != f.InputID {
		return false
	}
	if f.ProductID != "" && tx.ProductID != f.ProductID {
		return false
	}
	if f.ReferenceID != "" && tx.ReferenceID != f.ReferenceID {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	return true
}

// =============================================================================
// TRANSACTION REPOSITORY
// =============================================================================

// TransactionRepository is the append-only artisan_stock_transactions ledger.
// It has no Update or Delete.
type TransactionRepository struct {
	c     *collection[StockTransaction, TransactionID]
	clock generic.Clock
}

func newTransactionRepository(kv *generic.KV, locker generic.Locker, clock generic.Clock) *TransactionRepository {
	return &TransactionRepository{
		c:     newCollection(KeyTransactions, kv, locker, func(t StockTransaction) TransactionID { return t.ID }),
		clock: clock,
	}
}

func (r *TransactionRepository) List(ctx context.Context) []StockTransaction {
	return r.c.list(ctx)
}

func (r *TransactionRepository) Get(ctx context.Context, id TransactionID) (StockTransaction, bool) {
	return r.c.find(ctx, id)
}

// Filter returns matching entries in ledger order.
func (r *TransactionRepository) Filter(ctx context.Context, f TransactionFilter) []StockTransaction {
	out := []StockTransaction{}
	for _, tx := range r.List(ctx) {
		if f.matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Append stamps id and created_at on each entry and stores them together.
func (r *TransactionRepository) Append(ctx context.Context, txs ...StockTransaction) ([]StockTransaction, error) {
	now := r.clock.Now()
	stamped := make([]StockTransaction, len(txs))
	for i, tx := range txs {
		tx.ID = TransactionID(generic.NewID())
		tx.CreatedAt = now
		stamped[i] = tx
	}
	if err := r.c.append(ctx, stamped...); err != nil {
		return nil, err
	}
	return stamped, nil
}
