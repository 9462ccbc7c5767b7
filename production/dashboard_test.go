package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/artisan-engine/production"
)

func TestDashboardStats_CountsAndRecentBatches(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	fx := newBreadFixture(t, svc, "8") // min_stock 10: low

	for i := 0; i < 7; i++ {
		_, err := svc.CreateBatch(ctx, production.NewBatch{RecipeID: fx.Recipe.ID, Quantity: 1})
		require.NoError(t, err)
	}
	first := svc.Batches.List(ctx)[0]
	_, err := svc.CancelBatch(ctx, first.ID)
	require.NoError(t, err)

	stats := svc.DashboardStats(ctx)

	assert.Equal(t, 1, stats.TotalInputs)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalRecipes)
	assert.Equal(t, 6, stats.ActiveBatches)
	assert.Equal(t, 1, stats.LowStockInputs)
	assert.Equal(t, 1, stats.LowStockProducts, "bread has 0 of min 5")
	assert.Len(t, stats.RecentBatches, 5)
}

func TestComputeDashboard_RecentBatchesNewestFirst(t *testing.T) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	var batches []production.Batch
	for i := 0; i < 6; i++ {
		batches = append(batches, production.Batch{
			ID:        production.BatchID(string(rune('a' + i))),
			Status:    production.StatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	stats := production.ComputeDashboard(production.Snapshot{Batches: batches})

	require.Len(t, stats.RecentBatches, 5)
	assert.Equal(t, production.BatchID("f"), stats.RecentBatches[0].ID)
	assert.Equal(t, production.BatchID("b"), stats.RecentBatches[4].ID)
	assert.Equal(t, 0, stats.ActiveBatches)
}

func TestLowStock_AtMinimumCounts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Inputs.Create(ctx, production.NewInput{Name: "Butter", Unit: "kg", Stock: dec("3"), MinStock: dec("3")})
	require.NoError(t, err)
	_, err = svc.Inputs.Create(ctx, production.NewInput{Name: "Eggs", Unit: "unit", Stock: dec("100"), MinStock: dec("20")})
	require.NoError(t, err)

	report := svc.LowStock(ctx)

	require.Len(t, report.Inputs, 1)
	assert.Equal(t, "Butter", report.Inputs[0].Name)
	assert.Empty(t, report.Products)
	assert.False(t, report.Empty())
}

// =============================================================================
// SEED / RESET
// =============================================================================

func TestSeed_LoadsBakeryOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	seeded, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	assert.Len(t, svc.Inputs.List(ctx), 5)
	assert.Len(t, svc.Products.List(ctx), 3)
	recipes := svc.Recipes.List(ctx)
	require.Len(t, recipes, 3)

	// Every reference in the sample data resolves.
	for _, r := range recipes {
		_, ok := svc.Products.Get(ctx, r.ProductID)
		assert.True(t, ok, "recipe %s product", r.Name)
		for _, ing := range r.Ingredients {
			_, ok := svc.Inputs.Get(ctx, ing.InputID)
			assert.True(t, ok, "recipe %s ingredient", r.Name)
		}
	}

	seeded, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded, "seed is a no-op once inputs exist")
	assert.Len(t, svc.Inputs.List(ctx), 5)
}

func TestSeed_LeavesExistingCatalogAndHistoryAlone(t *testing.T) {
	// GIVEN: A product with an adjustment on the ledger and a planned batch, but no inputs
	ctx := context.Background()
	svc, _ := newTestService(t)
	jam, err := svc.Products.Create(ctx, production.NewProduct{Name: "Jam", Unit: "jar"})
	require.NoError(t, err)
	_, _, err = svc.AdjustProductStock(ctx, jam.ID, dec("12"), "")
	require.NoError(t, err)
	batch, err := svc.CreateBatch(ctx, production.NewBatch{RecipeID: "apricot-jam", Quantity: 1})
	require.NoError(t, err)

	// WHEN: Seeding
	seeded, err := svc.Seed(ctx)

	// THEN: Nothing is written and nothing is lost
	require.NoError(t, err)
	assert.False(t, seeded)
	snap := svc.Snapshot(ctx)
	assert.Empty(t, snap.Inputs)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, jam.ID, snap.Products[0].ID)
	assertDec(t, "12", snap.Products[0].Stock)
	assert.Len(t, snap.Transactions, 1)
	require.Len(t, snap.Batches, 1)
	assert.Equal(t, batch.ID, snap.Batches[0].ID)
}

func TestSeed_NeverTouchesBatchesOrLedger(t *testing.T) {
	// GIVEN: An empty catalog that still has batch and ledger history
	ctx := context.Background()
	svc, _ := newTestService(t)
	batch, err := svc.CreateBatch(ctx, production.NewBatch{RecipeID: "deleted-recipe", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Transactions.Append(ctx, production.StockTransaction{
		Type: production.TxAdjustment, ProductID: "deleted-product", Quantity: dec("-3"),
	})
	require.NoError(t, err)

	// WHEN: Seeding
	seeded, err := svc.Seed(ctx)

	// THEN: The catalog is filled and the history survives
	require.NoError(t, err)
	assert.True(t, seeded)
	snap := svc.Snapshot(ctx)
	assert.Len(t, snap.Inputs, 5)
	assert.Len(t, snap.Products, 3)
	assert.Len(t, snap.Recipes, 3)
	require.Len(t, snap.Batches, 1)
	assert.Equal(t, batch.ID, snap.Batches[0].ID)
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, production.ProductID("deleted-product"), snap.Transactions[0].ProductID)
}

func TestSeed_BreadRecipeCostsFiveNinety(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	var bread production.Recipe
	for _, r := range svc.Recipes.List(ctx) {
		if r.Name == "Traditional Artisan Bread" {
			bread = r
		}
	}
	require.NotEmpty(t, bread.ID)

	assertDec(t, "5.9", svc.CalculateRecipeCost(ctx, bread))
}

func TestReset_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))

	assert.Empty(t, mem.Keys())
	snap := svc.Snapshot(ctx)
	assert.Empty(t, snap.Inputs)
	assert.Empty(t, snap.Recipes)

	seeded, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded, "seed works again after reset")
}
