/*
Package reports aggregates production history over a time window.

PURPOSE:
  Read-only views for the reports screen and the XLSX export. Everything
  here is a pure function of a production.Snapshot, a Window, and "now",
  so the same numbers come out of the API, the CLI, and the tests.

GROUPINGS:
  ProductionByDay     yield x quantity of batches created each day
  CostByRecipe        recipe cost x quantity, per recipe name
  ProductionByProduct produced quantity and batch count, per product name
  ConsumptionByInput  |quantity| of input_consumption entries, per input name

SELECTION:
  Batches:      created_at inside the window, status not cancelled
  Transactions: created_at inside the window
  Any batch whose recipe (or product, for ProductionByProduct) no longer
  exists is left out of that grouping.

ORDERING:
  Days ascending; every other grouping by name ascending.
*/
package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/production"
)

// DayProduction is the total yield of batches created on one day.
type DayProduction struct {
	Day      string          `json:"day"` // YYYY-MM-DD
	Quantity decimal.Decimal `json:"quantity"`
}

// RecipeCost is the input cost spent on one recipe.
type RecipeCost struct {
	Name    string          `json:"name"`
	Cost    decimal.Decimal `json:"cost"`
	Batches int             `json:"batches"`
}

// ProductProduction is how much of one product the window's batches made.
type ProductProduction struct {
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	Batches  int             `json:"batches"`
}

// InputConsumption is how much of one input was consumed by settlements.
type InputConsumption struct {
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Summary totals the report.
type Summary struct {
	Batches          int             `json:"batches"`
	CompletedBatches int             `json:"completed_batches"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

// Report is every grouping for one window.
type Report struct {
	Window              generic.Window      `json:"window"`
	Start               time.Time           `json:"start"`
	End                 time.Time           `json:"end"`
	Summary             Summary             `json:"summary"`
	ProductionByDay     []DayProduction     `json:"production_by_day"`
	CostByRecipe        []RecipeCost        `json:"cost_by_recipe"`
	ProductionByProduct []ProductProduction `json:"production_by_product"`
	ConsumptionByInput  []InputConsumption  `json:"consumption_by_input"`
}

// Build computes the report for window w as seen at now.
func Build(snap production.Snapshot, w generic.Window, now time.Time) Report {
	period := w.PeriodFor(now)
	recipes := snap.RecipeIndex()
	products := snap.ProductIndex()
	inputs := snap.InputIndex()

	byDay := map[string]decimal.Decimal{}
	byRecipe := map[string]*RecipeCost{}
	byProduct := map[string]*ProductProduction{}
	summary := Summary{TotalCost: decimal.Zero}

	for _, b := range snap.Batches {
		if b.Status == production.StatusCancelled || !period.Contains(b.CreatedAt) {
			continue
		}
		summary.Batches++
		if b.Status == production.StatusCompleted {
			summary.CompletedBatches++
		}

		recipe, ok := recipes[b.RecipeID]
		if !ok {
			continue
		}
		qty := decimal.NewFromInt(int64(b.Quantity))
		produced := recipe.YieldQuantity.Mul(qty)

		day := b.CreatedAt.Format("2006-01-02")
		byDay[day] = byDay[day].Add(produced)

		cost := production.RecipeCost(recipe, snap.Inputs).Mul(qty)
		summary.TotalCost = summary.TotalCost.Add(cost)
		rc, ok := byRecipe[recipe.Name]
		if !ok {
			rc = &RecipeCost{Name: recipe.Name, Cost: decimal.Zero}
			byRecipe[recipe.Name] = rc
		}
		rc.Cost = rc.Cost.Add(cost)
		rc.Batches++

		product, ok := products[recipe.ProductID]
		if !ok {
			continue
		}
		pp, ok := byProduct[product.Name]
		if !ok {
			pp = &ProductProduction{Name: product.Name, Unit: product.Unit, Quantity: decimal.Zero}
			byProduct[product.Name] = pp
		}
		pp.Quantity = pp.Quantity.Add(produced)
		pp.Batches++
	}

	byInput := map[string]*InputConsumption{}
	for _, tx := range snap.Transactions {
		if tx.Type != production.TxInputConsumption || !period.Contains(tx.CreatedAt) {
			continue
		}
		input, ok := inputs[tx.InputID]
		if !ok {
			continue
		}
		ic, ok := byInput[input.Name]
		if !ok {
			ic = &InputConsumption{Name: input.Name, Unit: input.Unit, Quantity: decimal.Zero}
			byInput[input.Name] = ic
		}
		ic.Quantity = ic.Quantity.Add(tx.Quantity.Abs())
	}

	report := Report{
		Window:              w,
		Start:               period.Start,
		End:                 period.End,
		Summary:             summary,
		ProductionByDay:     make([]DayProduction, 0, len(byDay)),
		CostByRecipe:        make([]RecipeCost, 0, len(byRecipe)),
		ProductionByProduct: make([]ProductProduction, 0, len(byProduct)),
		ConsumptionByInput:  make([]InputConsumption, 0, len(byInput)),
	}
	for day, q := range byDay {
		report.ProductionByDay = append(report.ProductionByDay, DayProduction{Day: day, Quantity: q})
	}
	for _, rc := range byRecipe {
		report.CostByRecipe = append(report.CostByRecipe, *rc)
	}
	for _, pp := range byProduct {
		report.ProductionByProduct = append(report.ProductionByProduct, *pp)
	}
	for _, ic := range byInput {
		report.ConsumptionByInput = append(report.ConsumptionByInput, *ic)
	}

	sort.Slice(report.ProductionByDay, func(i, j int) bool {
		return report.ProductionByDay[i].Day < report.ProductionByDay[j].Day
	})
	sort.Slice(report.CostByRecipe, func(i, j int) bool {
		return report.CostByRecipe[i].Name < report.CostByRecipe[j].Name
	})
	sort.Slice(report.ProductionByProduct, func(i, j int) bool {
		return report.ProductionByProduct[i].Name < report.ProductionByProduct[j].Name
	})
	sort.Slice(report.ConsumptionByInput, func(i, j int) bool {
		return report.ConsumptionByInput[i].Name < report.ConsumptionByInput[j].Name
	})
	return report
}
