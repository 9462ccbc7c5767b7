package production_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/production"
)

func TestAdjustInputStock_Purchase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	fx := newBreadFixture(t, svc, "50")

	in, tx, err := svc.AdjustInputStock(ctx, fx.Flour.ID, dec("20"), "")

	require.NoError(t, err)
	assertDec(t, "70", in.Stock)
	assert.Equal(t, production.TxInputPurchase, tx.Type)
	assertDec(t, "20", tx.Quantity)
	require.NotNil(t, tx.TotalCost)
	assertDec(t, "50", *tx.TotalCost)
	assert.Equal(t, "Input purchase", tx.Notes)
	assert.NotEmpty(t, tx.ID)
	assert.Len(t, svc.Transactions.Filter(ctx, production.TransactionFilter{InputID: fx.Flour.ID}), 1)
}

func TestAdjustInputStock_NegativeIsAdjustmentWithAbsoluteCost(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	fx := newBreadFixture(t, svc, "50")

	in, tx, err := svc.AdjustInputStock(ctx, fx.Flour.ID, dec("-4"), "spilled")

	require.NoError(t, err)
	assertDec(t, "46", in.Stock)
	assert.Equal(t, production.TxAdjustment, tx.Type)
	assertDec(t, "-4", tx.Quantity)
	assertDec(t, "10", *tx.TotalCost)
	assert.Equal(t, "spilled", tx.Notes)
}

func TestAdjustInputStock_BelowZeroIsRefused(t *testing.T) {
	// GIVEN: Flour 5
	// WHEN: Removing 6
	// THEN: Refused, no clamp, no transaction

	ctx := context.Background()
	svc, _ := newTestService(t)
	fx := newBreadFixture(t, svc, "5")

	_, _, err := svc.AdjustInputStock(ctx, fx.Flour.ID, dec("-6"), "")

	assert.ErrorIs(t, err, generic.ErrInsufficientStock)
	assertDec(t, "5", mustGetInput(t, svc, fx.Flour.ID).Stock)
	assert.Empty(t, svc.Transactions.List(ctx))
}

func TestAdjustStock_ZeroDeltaIsRefused(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	fx := newBreadFixture(t, svc, "5")

	_, _, err := svc.AdjustInputStock(ctx, fx.Flour.ID, dec("0"), "")
	assert.ErrorIs(t, err, generic.ErrInvalidQuantity)

	_, _, err = svc.AdjustProductStock(ctx, fx.Bread.ID, dec("0"), "")
	assert.ErrorIs(t, err, generic.ErrInvalidQuantity)
}

func TestAdjustStock_UnknownIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, _, err := svc.AdjustInputStock(ctx, "missing", dec("1"), "")
	assert.ErrorIs(t, err, generic.ErrNotFound)

	_, _, err = svc.AdjustProductStock(ctx, "missing", dec("1"), "")
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

func TestAdjustProductStock_AdjustmentThenSale(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	fx := newBreadFixture(t, svc, "50")

	p, tx, err := svc.AdjustProductStock(ctx, fx.Bread.ID, dec("12"), "")
	require.NoError(t, err)
	assertDec(t, "12", p.Stock)
	assert.Equal(t, production.TxAdjustment, tx.Type)
	assert.Equal(t, "Stock adjustment", tx.Notes)
	assert.Nil(t, tx.UnitCost)

	p, tx, err = svc.AdjustProductStock(ctx, fx.Bread.ID, dec("-5"), "")
	require.NoError(t, err)
	assertDec(t, "7", p.Stock)
	assert.Equal(t, production.TxProductSale, tx.Type)
	assert.Equal(t, "Product sale", tx.Notes)

	_, _, err = svc.AdjustProductStock(ctx, fx.Bread.ID, dec("-8"), "")
	assert.ErrorIs(t, err, generic.ErrInsufficientStock)
	assertDec(t, "7", mustGetProduct(t, svc, fx.Bread.ID).Stock)

	assert.Len(t, svc.Transactions.Filter(ctx, production.TransactionFilter{ProductID: fx.Bread.ID}), 2)
}
