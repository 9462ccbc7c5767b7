package production

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/artisan-engine/generic"
)

// =============================================================================
// REQUIREMENTS - Shared by availability checks and settlement
// =============================================================================

// requirement is the total amount of one input a batch needs.
type requirement struct {
	Input    Input
	Quantity decimal.Decimal
}

// consumptionPlan is what a recipe scaled by a batch quantity asks of stock.
type consumptionPlan struct {
	Requirements []requirement
	Shortfalls   []generic.Shortfall
	Dangling     []InputID // ingredients whose input no longer exists
}

// planConsumption scales recipe by qty against inputs.
// An input listed on several ingredient lines is required once, summed,
// in order of first appearance. Dangling ingredients are skipped.
func planConsumption(recipe Recipe, qty int, inputs map[InputID]Input) consumptionPlan {
	var plan consumptionPlan
	multiplier := decimal.NewFromInt(int64(qty))
	position := make(map[InputID]int)

	for _, ing := range recipe.Ingredients {
		input, ok := inputs[ing.InputID]
		if !ok {
			plan.Dangling = append(plan.Dangling, ing.InputID)
			continue
		}
		needed := ing.Quantity.Mul(multiplier)
		if i, seen := position[ing.InputID]; seen {
			plan.Requirements[i].Quantity = plan.Requirements[i].Quantity.Add(needed)
			continue
		}
		position[ing.InputID] = len(plan.Requirements)
		plan.Requirements = append(plan.Requirements, requirement{Input: input, Quantity: needed})
	}

	for _, req := range plan.Requirements {
		if req.Input.Stock.LessThan(req.Quantity) {
			plan.Shortfalls = append(plan.Shortfalls, generic.Shortfall{
				ID:        string(req.Input.ID),
				Name:      req.Input.Name,
				Required:  req.Quantity,
				Available: req.Input.Stock,
				Unit:      req.Input.Unit,
			})
		}
	}
	return plan
}

// =============================================================================
// AVAILABILITY
// =============================================================================

// MissingInput is one ingredient the current stock cannot cover.
type MissingInput struct {
	InputID   InputID         `json:"input_id"`
	Name      string          `json:"name"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Unit      string          `json:"unit"`
}

// Availability answers "can this recipe be produced qty times right now?".
// Missing is empty exactly when Available is true, except that an unknown
// recipe is unavailable with nothing listed.
type Availability struct {
	Available   bool           `json:"available"`
	RecipeFound bool           `json:"recipe_found"`
	Missing     []MissingInput `json:"missing"`
}

// CheckAvailability is the pure form of Service.CheckStockAvailability.
func CheckAvailability(recipe Recipe, qty int, inputs []Input) Availability {
	plan := planConsumption(recipe, qty, indexInputs(inputs))
	missing := make([]MissingInput, 0, len(plan.Shortfalls))
	for _, s := range plan.Shortfalls {
		missing = append(missing, MissingInput{
			InputID:   InputID(s.ID),
			Name:      s.Name,
			Required:  s.Required,
			Available: s.Available,
			Unit:      s.Unit,
		})
	}
	return Availability{Available: len(missing) == 0, RecipeFound: true, Missing: missing}
}

// CheckStockAvailability reports whether recipeID can be produced qty times.
// It reads only.
func (s *Service) CheckStockAvailability(ctx context.Context, recipeID RecipeID, qty int) (Availability, error) {
	if qty < 1 {
		return Availability{}, fmt.Errorf("%w: quantity %d", generic.ErrInvalidQuantity, qty)
	}
	recipe, ok := s.Recipes.Get(ctx, recipeID)
	if !ok {
		return Availability{Missing: []MissingInput{}}, nil
	}
	return CheckAvailability(recipe, qty, s.Inputs.List(ctx)), nil
}

// =============================================================================
// RECIPE COST
// =============================================================================

// RecipeCost sums cost_per_unit x quantity over a recipe's ingredients for
// one batch multiplier. Missing inputs contribute zero; use
// BreakdownRecipeCost to find out which ones.
func RecipeCost(recipe Recipe, inputs []Input) decimal.Decimal {
	return BreakdownRecipeCost(recipe, inputs).Total
}

// CostLine is one ingredient's share of a recipe cost.
type CostLine struct {
	InputID  InputID         `json:"input_id"`
	Name     string          `json:"name,omitempty"`
	Unit     string          `json:"unit,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Cost     decimal.Decimal `json:"cost"`
	Missing  bool            `json:"missing,omitempty"`
}

// CostBreakdown itemizes a recipe cost. A non-empty MissingInputs means
// Total understates the true cost.
type CostBreakdown struct {
	RecipeID      RecipeID        `json:"recipe_id"`
	Lines         []CostLine      `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	PerYieldUnit  decimal.Decimal `json:"per_yield_unit"`
	MissingInputs []InputID       `json:"missing_inputs"`
}

func BreakdownRecipeCost(recipe Recipe, inputs []Input) CostBreakdown {
	index := indexInputs(inputs)
	out := CostBreakdown{
		RecipeID:      recipe.ID,
		Lines:         make([]CostLine, 0, len(recipe.Ingredients)),
		Total:         decimal.Zero,
		PerYieldUnit:  decimal.Zero,
		MissingInputs: []InputID{},
	}

	for _, ing := range recipe.Ingredients {
		line := CostLine{InputID: ing.InputID, Quantity: ing.Quantity, UnitCost: decimal.Zero, Cost: decimal.Zero}
		if input, ok := index[ing.InputID]; ok {
			line.Name = input.Name
			line.Unit = input.Unit
			line.UnitCost = input.CostPerUnit
			line.Cost = input.CostPerUnit.Mul(ing.Quantity)
			out.Total = out.Total.Add(line.Cost)
		} else {
			line.Missing = true
			out.MissingInputs = append(out.MissingInputs, ing.InputID)
		}
		out.Lines = append(out.Lines, line)
	}

	if recipe.YieldQuantity.IsPositive() {
		out.PerYieldUnit = out.Total.DivRound(recipe.YieldQuantity, 4)
	}
	return out
}

// CalculateRecipeCost prices recipe against current input costs.
func (s *Service) CalculateRecipeCost(ctx context.Context, recipe Recipe) decimal.Decimal {
	return RecipeCost(recipe, s.Inputs.List(ctx))
}

// RecipeCostBreakdown itemizes recipe against current input costs.
func (s *Service) RecipeCostBreakdown(ctx context.Context, recipe Recipe) CostBreakdown {
	return BreakdownRecipeCost(recipe, s.Inputs.List(ctx))
}
