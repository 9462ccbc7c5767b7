package production

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/artisan-engine/generic"
	"go.uber.org/zap"
)

// =============================================================================
// MANUAL STOCK ADJUSTMENTS
// =============================================================================
//
// One policy for inputs and products:
//   - a zero delta is refused (ErrInvalidQuantity)
//   - a delta that would take stock below zero is refused
//     (*InsufficientStockError); stock is never clamped
//   - otherwise stock moves and exactly one transaction is appended
//
// Transaction types:
//   input   +delta -> input_purchase    -delta -> adjustment
//   product +delta -> adjustment        -delta -> product_sale

// AdjustInputStock adds delta to an input's stock.
func (s *Service) AdjustInputStock(ctx context.Context, id InputID, delta decimal.Decimal, notes string) (Input, StockTransaction, error) {
	if delta.IsZero() {
		return Input{}, StockTransaction{}, fmt.Errorf("%w: delta must not be zero", generic.ErrInvalidQuantity)
	}

	var (
		updated Input
		tx      StockTransaction
	)
	err := s.withSettlementLock(ctx, func() error {
		var err error
		updated, err = s.Inputs.c.update(ctx, id, func(in *Input) error {
			return applyDelta(&in.Stock, delta, string(in.ID), in.Name, in.Unit)
		})
		if err != nil {
			return err
		}

		tx = StockTransaction{
			Type:      TxAdjustment,
			InputID:   id,
			Quantity:  delta,
			UnitCost:  generic.DecPtr(updated.CostPerUnit),
			TotalCost: generic.DecPtr(updated.CostPerUnit.Mul(delta.Abs())),
			Notes:     notes,
		}
		if delta.IsPositive() {
			tx.Type = TxInputPurchase
		}
		if tx.Notes == "" {
			tx.Notes = defaultAdjustNote(tx.Type)
		}
		return s.appendOne(ctx, &tx)
	})
	if err != nil {
		return Input{}, StockTransaction{}, err
	}

	s.log.Info("input stock adjusted",
		zap.String("input_id", string(id)),
		zap.String("delta", delta.String()),
		zap.String("stock", updated.Stock.String()))
	return updated, tx, nil
}

// AdjustProductStock adds delta to a product's stock.
func (s *Service) AdjustProductStock(ctx context.Context, id ProductID, delta decimal.Decimal, notes string) (Product, StockTransaction, error) {
	if delta.IsZero() {
		return Product{}, StockTransaction{}, fmt.Errorf("%w: delta must not be zero", generic.ErrInvalidQuantity)
	}

	var (
		updated Product
		tx      StockTransaction
	)
	err := s.withSettlementLock(ctx, func() error {
		var err error
		updated, err = s.Products.c.update(ctx, id, func(p *Product) error {
			return applyDelta(&p.Stock, delta, string(p.ID), p.Name, p.Unit)
		})
		if err != nil {
			return err
		}

		tx = StockTransaction{
			Type:      TxProductSale,
			ProductID: id,
			Quantity:  delta,
			Notes:     notes,
		}
		if delta.IsPositive() {
			tx.Type = TxAdjustment
		}
		if tx.Notes == "" {
			tx.Notes = defaultAdjustNote(tx.Type)
		}
		return s.appendOne(ctx, &tx)
	})
	if err != nil {
		return Product{}, StockTransaction{}, err
	}

	s.log.Info("product stock adjusted",
		zap.String("product_id", string(id)),
		zap.String("delta", delta.String()),
		zap.String("stock", updated.Stock.String()))
	return updated, tx, nil
}

func applyDelta(stock *decimal.Decimal, delta decimal.Decimal, id, name, unit string) error {
	next := stock.Add(delta)
	if next.IsNegative() {
		return &generic.InsufficientStockError{Shortfalls: []generic.Shortfall{{
			ID:        id,
			Name:      name,
			Required:  delta.Neg(),
			Available: *stock,
			Unit:      unit,
		}}}
	}
	*stock = next
	return nil
}

// appendOne records tx after stock has already moved, so it ignores cancellation.
func (s *Service) appendOne(ctx context.Context, tx *StockTransaction) error {
	stamped, err := s.Transactions.Append(context.WithoutCancel(ctx), *tx)
	if err != nil {
		return err
	}
	*tx = stamped[0]
	return nil
}

func defaultAdjustNote(t TransactionType) string {
	switch t {
	case TxInputPurchase:
		return "Input purchase"
	case TxProductSale:
		return "Product sale"
	default:
		return "Stock adjustment"
	}
}
