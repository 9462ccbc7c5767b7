package reports_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/production"
	"github.com/warp/artisan-engine/reports"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var now = time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 8, 0, 0, 0, time.UTC)
}

// bakerySnapshot: bread (2 kg flour @2.5 -> 10 loaves), cake (0.5 kg flour + 4 eggs @0.5 -> 1 cake).
func bakerySnapshot() production.Snapshot {
	return production.Snapshot{
		Inputs: []production.Input{
			{ID: "flour", Name: "Flour", Unit: "kg", CostPerUnit: dec("2.5")},
			{ID: "eggs", Name: "Eggs", Unit: "unit", CostPerUnit: dec("0.5")},
		},
		Products: []production.Product{
			{ID: "bread", Name: "Bread", Unit: "unit"},
			{ID: "cake", Name: "Cake", Unit: "unit"},
		},
		Recipes: []production.Recipe{
			{ID: "r-bread", Name: "Bread", ProductID: "bread", YieldQuantity: dec("10"),
				Ingredients: []production.Ingredient{{InputID: "flour", Quantity: dec("2")}}},
			{ID: "r-cake", Name: "Cake", ProductID: "cake", YieldQuantity: dec("1"),
				Ingredients: []production.Ingredient{
					{InputID: "flour", Quantity: dec("0.5")},
					{InputID: "eggs", Quantity: dec("4")},
				}},
		},
		Batches: []production.Batch{
			{ID: "b1", RecipeID: "r-bread", Quantity: 3, Status: production.StatusCompleted, CreatedAt: day(18)},
			{ID: "b2", RecipeID: "r-bread", Quantity: 1, Status: production.StatusPlanned, CreatedAt: day(18)},
			{ID: "b3", RecipeID: "r-cake", Quantity: 2, Status: production.StatusInProgress, CreatedAt: day(19)},
			{ID: "b4", RecipeID: "r-cake", Quantity: 5, Status: production.StatusCancelled, CreatedAt: day(19)},
			{ID: "b5", RecipeID: "r-gone", Quantity: 1, Status: production.StatusPlanned, CreatedAt: day(19)},
			{ID: "b6", RecipeID: "r-bread", Quantity: 9, Status: production.StatusCompleted, CreatedAt: day(1).AddDate(0, -1, 0)},
		},
		Transactions: []production.StockTransaction{
			{Type: production.TxInputConsumption, InputID: "flour", Quantity: dec("-6"), CreatedAt: day(18)},
			{Type: production.TxInputConsumption, InputID: "flour", Quantity: dec("-1"), CreatedAt: day(19)},
			{Type: production.TxInputConsumption, InputID: "eggs", Quantity: dec("-8"), CreatedAt: day(19)},
			{Type: production.TxInputPurchase, InputID: "flour", Quantity: dec("20"), CreatedAt: day(19)},
			{Type: production.TxInputConsumption, InputID: "ghost", Quantity: dec("-3"), CreatedAt: day(19)},
			{Type: production.TxInputConsumption, InputID: "flour", Quantity: dec("-18"), CreatedAt: day(1).AddDate(0, -1, 0)},
		},
	}
}

// =============================================================================
// BUILD
// =============================================================================

func TestBuild_MonthGroupings(t *testing.T) {
	// GIVEN: March batches (one cancelled, one with a deleted recipe) and a February batch
	// WHEN: Building the month report
	// THEN: Only live March batches with resolvable recipes count

	r := reports.Build(bakerySnapshot(), generic.WindowMonth, now)

	assert.Equal(t, generic.WindowMonth, r.Window)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), r.Start)

	assert.Equal(t, 4, r.Summary.Batches, "b1 b2 b3 b5")
	assert.Equal(t, 1, r.Summary.CompletedBatches)

	require.Len(t, r.ProductionByDay, 2)
	assert.Equal(t, "2025-03-18", r.ProductionByDay[0].Day)
	assert.True(t, dec("40").Equal(r.ProductionByDay[0].Quantity), "30 + 10 loaves")
	assert.Equal(t, "2025-03-19", r.ProductionByDay[1].Day)
	assert.True(t, dec("2").Equal(r.ProductionByDay[1].Quantity), "2 cakes")

	// Bread: 5 per batch x 4 = 20. Cake: (1.25 + 2) x 2 = 6.5.
	require.Len(t, r.CostByRecipe, 2)
	assert.Equal(t, "Bread", r.CostByRecipe[0].Name)
	assert.True(t, dec("20").Equal(r.CostByRecipe[0].Cost), r.CostByRecipe[0].Cost.String())
	assert.Equal(t, 2, r.CostByRecipe[0].Batches)
	assert.Equal(t, "Cake", r.CostByRecipe[1].Name)
	assert.True(t, dec("6.5").Equal(r.CostByRecipe[1].Cost), r.CostByRecipe[1].Cost.String())
	assert.True(t, dec("26.5").Equal(r.Summary.TotalCost))

	require.Len(t, r.ProductionByProduct, 2)
	assert.Equal(t, "Bread", r.ProductionByProduct[0].Name)
	assert.True(t, dec("40").Equal(r.ProductionByProduct[0].Quantity))
	assert.Equal(t, 2, r.ProductionByProduct[0].Batches)

	require.Len(t, r.ConsumptionByInput, 2)
	assert.Equal(t, "Eggs", r.ConsumptionByInput[0].Name)
	assert.True(t, dec("8").Equal(r.ConsumptionByInput[0].Quantity))
	assert.Equal(t, "Flour", r.ConsumptionByInput[1].Name)
	assert.True(t, dec("7").Equal(r.ConsumptionByInput[1].Quantity), "purchases are not consumption")
}

func TestBuild_WeekWindowIsRolling(t *testing.T) {
	snap := bakerySnapshot()
	snap.Batches = append(snap.Batches, production.Batch{
		ID: "old", RecipeID: "r-bread", Quantity: 1, Status: production.StatusPlanned, CreatedAt: day(12),
	})

	r := reports.Build(snap, generic.WindowWeek, now)

	assert.Equal(t, now.Add(-7*24*time.Hour), r.Start)
	assert.Equal(t, now, r.End)
	assert.Equal(t, 4, r.Summary.Batches, "the 12th is outside the last 7 days")
}

func TestBuild_QuarterIncludesLastMonth(t *testing.T) {
	r := reports.Build(bakerySnapshot(), generic.WindowQuarter, now)

	assert.Equal(t, 5, r.Summary.Batches)
	require.Len(t, r.ConsumptionByInput, 2)
	assert.True(t, dec("25").Equal(r.ConsumptionByInput[1].Quantity))
}

func TestBuild_EmptySnapshot(t *testing.T) {
	r := reports.Build(production.Snapshot{}, generic.WindowMonth, now)

	assert.NotNil(t, r.ProductionByDay)
	assert.Empty(t, r.ProductionByDay)
	assert.Empty(t, r.CostByRecipe)
	assert.Equal(t, 0, r.Summary.Batches)
}

// =============================================================================
// XLSX
// =============================================================================

func TestWriteXLSX_OneSheetPerGrouping(t *testing.T) {
	r := reports.Build(bakerySnapshot(), generic.WindowMonth, now)

	var buf bytes.Buffer
	require.NoError(t, reports.WriteXLSX(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		reports.SheetSummary,
		reports.SheetByDay,
		reports.SheetCostRecipe,
		reports.SheetByProduct,
		reports.SheetConsumption,
	}, f.GetSheetList())

	rows, err := f.GetRows(reports.SheetByDay)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Day", "Quantity"}, rows[0])
	assert.Equal(t, []string{"2025-03-18", "40"}, rows[1])

	rows, err = f.GetRows(reports.SheetCostRecipe)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cake", "1", "6.5"}, rows[2])

	summary, err := f.GetRows(reports.SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Window", "month"}, summary[0])
}
