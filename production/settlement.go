/*
settlement.go - Batch state machine and completion

PURPOSE:
  Completing a batch is the one operation that touches every collection.
  It must never leave stock negative, never apply half a batch, and leave
  a transaction behind for every unit it moves.

FLOW (CompleteBatch):
  1. Batch lookup          -> ErrBatchNotFound
  2. Status check          -> *TransitionError (completed/cancelled never re-apply)
  3. Recipe lookup         -> ErrRecipeNotFound, batch untouched
  4. Plan + check stock    -> *InsufficientStockError naming every short input,
                              nothing written
  5. Commit:
       inputs        decremented in one write (steps 4 and 5 share the
                     inputs collection lock)
       product       incremented by yield x quantity, if it still exists
       transactions  one input_consumption per input, one product_production
       batch         status completed, completion_date set

CONCURRENCY:
  The whole flow holds the "settlement" lock. Once step 5 starts it runs
  on a context detached from the caller's cancellation, so a dropped HTTP
  request cannot stop a settlement between two writes.

SEE ALSO:
  - cost.go: planConsumption, shared with availability checks
  - batches.go: status transitions
*/
package production

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/artisan-engine/generic"
	"go.uber.org/zap"
)

// SettlementResult is the outcome of CompleteBatch. On failure Success is
// false and Message carries the same text as the returned error.
type SettlementResult struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message"`
	Batch        *Batch              `json:"batch,omitempty"`
	Shortfalls   []generic.Shortfall `json:"shortfalls,omitempty"`
	Transactions []StockTransaction  `json:"transactions,omitempty"`
}

// =============================================================================
// BATCH LIFECYCLE
// =============================================================================

// CreateBatch plans a new batch. The recipe is a weak reference and is
// only resolved at completion.
func (s *Service) CreateBatch(ctx context.Context, n NewBatch) (Batch, error) {
	b, err := s.Batches.Create(ctx, n)
	if err != nil {
		return Batch{}, err
	}
	if _, ok := s.Recipes.Get(ctx, n.RecipeID); !ok {
		s.log.Warn("batch planned for unknown recipe",
			zap.String("batch_id", string(b.ID)),
			zap.String("recipe_id", string(n.RecipeID)))
	}
	return b, nil
}

// StartBatch moves a planned batch to in_progress.
func (s *Service) StartBatch(ctx context.Context, id BatchID) (Batch, error) {
	return s.transitionBatch(ctx, id, StatusInProgress)
}

// CancelBatch moves a planned or in-progress batch to cancelled. No stock moves.
func (s *Service) CancelBatch(ctx context.Context, id BatchID) (Batch, error) {
	return s.transitionBatch(ctx, id, StatusCancelled)
}

// UpdateBatch edits notes, quantity, or recipe. It takes the settlement
// lock so a batch cannot change shape while it is being settled.
func (s *Service) UpdateBatch(ctx context.Context, id BatchID, p BatchPatch) (Batch, error) {
	var out Batch
	err := s.withSettlementLock(ctx, func() error {
		b, err := s.Batches.Update(ctx, id, p)
		if generic.IsNotFound(err) {
			return fmt.Errorf("%w: %s", generic.ErrBatchNotFound, id)
		}
		out = b
		return err
	})
	return out, err
}

func (s *Service) transitionBatch(ctx context.Context, id BatchID, next BatchStatus) (Batch, error) {
	var out Batch
	err := s.withSettlementLock(ctx, func() error {
		b, err := s.Batches.transition(ctx, id, next)
		out = b
		return err
	})
	if err == nil {
		s.log.Info("batch status changed",
			zap.String("batch_id", string(id)),
			zap.String("batch_number", out.BatchNumber),
			zap.String("status", string(next)))
	}
	return out, err
}

// =============================================================================
// COMPLETION
// =============================================================================

// CompleteBatch settles a planned or in-progress batch. See the file
// header for the exact sequence.
func (s *Service) CompleteBatch(ctx context.Context, id BatchID) (SettlementResult, error) {
	var result SettlementResult
	err := s.withSettlementLock(ctx, func() error {
		var err error
		result, err = s.completeLocked(ctx, id)
		return err
	})
	if err != nil {
		result.Success = false
		result.Message = err.Error()
		s.log.Warn("batch settlement refused",
			zap.String("batch_id", string(id)),
			zap.Error(err))
	}
	return result, err
}

func (s *Service) completeLocked(ctx context.Context, id BatchID) (SettlementResult, error) {
	var result SettlementResult

	batch, ok := s.Batches.Get(ctx, id)
	if !ok {
		return result, fmt.Errorf("%w: %s", generic.ErrBatchNotFound, id)
	}
	result.Batch = &batch

	if !batch.Status.CanTransitionTo(StatusCompleted) {
		return result, &generic.TransitionError{ID: string(batch.ID), From: string(batch.Status), To: string(StatusCompleted)}
	}

	recipe, ok := s.Recipes.Get(ctx, batch.RecipeID)
	if !ok {
		return result, fmt.Errorf("%w: %s", generic.ErrRecipeNotFound, batch.RecipeID)
	}

	// Check and decrement under one inputs lock.
	var plan consumptionPlan
	err := s.Inputs.c.mutate(ctx, func(inputs []Input) ([]Input, error) {
		plan = planConsumption(recipe, batch.Quantity, indexInputs(inputs))
		if len(plan.Shortfalls) > 0 {
			return nil, &generic.InsufficientStockError{Shortfalls: plan.Shortfalls}
		}
		consumed := make(map[InputID]decimal.Decimal, len(plan.Requirements))
		for _, req := range plan.Requirements {
			consumed[req.Input.ID] = req.Quantity
		}
		for i := range inputs {
			if q, ok := consumed[inputs[i].ID]; ok {
				inputs[i].Stock = inputs[i].Stock.Sub(q)
			}
		}
		return inputs, nil
	})
	for _, dangling := range plan.Dangling {
		s.log.Warn("recipe ingredient references missing input, skipped",
			zap.String("batch_id", string(batch.ID)),
			zap.String("recipe_id", string(recipe.ID)),
			zap.String("input_id", string(dangling)))
	}
	if err != nil {
		var short *generic.InsufficientStockError
		if errors.As(err, &short) {
			result.Shortfalls = short.Shortfalls
		}
		return result, err
	}

	// Past this point every write must land.
	commitCtx := context.WithoutCancel(ctx)

	txs := make([]StockTransaction, 0, len(plan.Requirements)+1)
	for _, req := range plan.Requirements {
		txs = append(txs, StockTransaction{
			Type:        TxInputConsumption,
			ReferenceID: batch.ID,
			InputID:     req.Input.ID,
			Quantity:    req.Quantity.Neg(),
			UnitCost:    generic.DecPtr(req.Input.CostPerUnit),
			TotalCost:   generic.DecPtr(req.Input.CostPerUnit.Mul(req.Quantity)),
			Notes:       "Consumption for batch " + batch.BatchNumber,
		})
	}

	produced := recipe.YieldQuantity.Mul(decimal.NewFromInt(int64(batch.Quantity)))
	_, err = s.Products.c.update(commitCtx, recipe.ProductID, func(p *Product) error {
		p.Stock = p.Stock.Add(produced)
		return nil
	})
	switch {
	case err == nil:
		txs = append(txs, StockTransaction{
			Type:        TxProductProduction,
			ReferenceID: batch.ID,
			ProductID:   recipe.ProductID,
			Quantity:    produced,
			Notes:       "Production of batch " + batch.BatchNumber,
		})
	case generic.IsNotFound(err):
		s.log.Warn("recipe product missing, nothing produced",
			zap.String("batch_id", string(batch.ID)),
			zap.String("product_id", string(recipe.ProductID)))
	default:
		s.log.Error("product increment failed after inputs were consumed",
			zap.String("batch_id", string(batch.ID)),
			zap.Error(err))
	}

	appended, err := s.Transactions.Append(commitCtx, txs...)
	if err != nil {
		s.log.Error("ledger append failed after stock moved",
			zap.String("batch_id", string(batch.ID)),
			zap.Error(err))
	}

	completed, err := s.Batches.transition(commitCtx, batch.ID, StatusCompleted)
	if err != nil {
		return result, fmt.Errorf("batch %s: stock settled but status not updated: %w", batch.ID, err)
	}

	s.log.Info("batch completed",
		zap.String("batch_id", string(batch.ID)),
		zap.String("batch_number", batch.BatchNumber),
		zap.Int("quantity", batch.Quantity),
		zap.String("produced", produced.String()),
		zap.Int("transactions", len(appended)))

	return SettlementResult{
		Success:      true,
		Message:      fmt.Sprintf("Batch %s completed", batch.BatchNumber),
		Batch:        &completed,
		Transactions: appended,
	}, nil
}
