package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/generic/store"
	"github.com/warp/artisan-engine/production"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var testNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*production.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return production.NewService(mem, production.WithClock(generic.FixedClock(testNow))), mem
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDec compares decimals by value, ignoring exponent differences.
func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// breadFixture is the canonical scenario: Flour 2 kg per 10 loaves of Bread.
type breadFixture struct {
	Flour  production.Input
	Bread  production.Product
	Recipe production.Recipe
}

func newBreadFixture(t *testing.T, svc *production.Service, flourStock string) breadFixture {
	t.Helper()
	ctx := context.Background()

	flour, err := svc.Inputs.Create(ctx, production.NewInput{
		Name: "Flour", Unit: "kg", Stock: dec(flourStock), MinStock: dec("10"), CostPerUnit: dec("2.5"),
	})
	require.NoError(t, err)

	bread, err := svc.Products.Create(ctx, production.NewProduct{
		Name: "Bread", Unit: "unit", MinStock: dec("5"),
	})
	require.NoError(t, err)

	recipe, err := svc.Recipes.Create(ctx, production.NewRecipe{
		Name: "Bread", ProductID: bread.ID, YieldQuantity: dec("10"), YieldUnit: "unit",
		Ingredients: []production.Ingredient{{InputID: flour.ID, Quantity: dec("2")}},
	})
	require.NoError(t, err)

	return breadFixture{Flour: flour, Bread: bread, Recipe: recipe}
}

func mustGetInput(t *testing.T, svc *production.Service, id production.InputID) production.Input {
	t.Helper()
	in, ok := svc.Inputs.Get(context.Background(), id)
	require.True(t, ok, "input %s should exist", id)
	return in
}

func mustGetProduct(t *testing.T, svc *production.Service, id production.ProductID) production.Product {
	t.Helper()
	p, ok := svc.Products.Get(context.Background(), id)
	require.True(t, ok, "product %s should exist", id)
	return p
}

func mustGetBatch(t *testing.T, svc *production.Service, id production.BatchID) production.Batch {
	t.Helper()
	b, ok := svc.Batches.Get(context.Background(), id)
	require.True(t, ok, "batch %s should exist", id)
	return b
}
