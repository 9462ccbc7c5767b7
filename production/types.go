/*
Package production implements inventory, recipes, and batch settlement for
artisan producers (bakeries, breweries, cosmetics workshops).

PURPOSE:
  Tracks raw materials (Inputs), finished goods (Products), the Recipes
  that turn one into the other, and production Batches. The heart of the
  package is settlement: completing a batch consumes inputs, produces
  product, and writes an append-only ledger of stock transactions.

KEY CONCEPTS:
  Input:            raw material with stock, minimum stock, and unit cost
  Product:          finished good produced by a recipe
  Recipe:           ingredient list (input + quantity) yielding N units of a product
  Batch:            one production run of a recipe, scaled by an integer quantity
  StockTransaction: immutable record of one signed stock change

WEAK REFERENCES:
  Recipe -> Product, Batch -> Recipe, and Ingredient -> Input are plain
  typed identifiers. Nothing enforces that the target exists; every
  dereference goes through a repository Get that returns (value, ok).
  Deleting an input never touches recipes that mention it.

PERSISTENCE LAYOUT:
  artisan_inputs             []Input
  artisan_products           []Product
  artisan_recipes            []Recipe
  artisan_batches            []Batch
  artisan_stock_transactions []StockTransaction

  Each collection is one JSON array read and written whole.

SEE ALSO:
  - service.go: Service wiring and options
  - settlement.go: batch state machine and completion
  - cost.go: recipe cost and stock availability
*/
package production

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Quantities persist as JSON numbers, matching the stored documents.
	decimal.MarshalJSONWithoutQuotes = true
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type (
	InputID       string
	ProductID     string
	RecipeID      string
	BatchID       string
	TransactionID string
)

// =============================================================================
// COLLECTION KEYS
// =============================================================================

const (
	KeyInputs       = "artisan_inputs"
	KeyProducts     = "artisan_products"
	KeyRecipes      = "artisan_recipes"
	KeyBatches      = "artisan_batches"
	KeyTransactions = "artisan_stock_transactions"
)

// Keys lists every collection the package owns.
func Keys() []string {
	return []string{KeyInputs, KeyProducts, KeyRecipes, KeyBatches, KeyTransactions}
}

// settlementLock serializes every operation that moves stock or batch status.
const settlementLock = "settlement"

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a point-in-time copy of every collection.
// Reports and dashboards read from one snapshot instead of the store.
type Snapshot struct {
	Inputs       []Input            `json:"inputs"`
	Products     []Product          `json:"products"`
	Recipes      []Recipe           `json:"recipes"`
	Batches      []Batch            `json:"batches"`
	Transactions []StockTransaction `json:"transactions"`
}

// InputIndex maps inputs by id.
func (s Snapshot) InputIndex() map[InputID]Input {
	return indexInputs(s.Inputs)
}

// ProductIndex maps products by id.
func (s Snapshot) ProductIndex() map[ProductID]Product {
	out := make(map[ProductID]Product, len(s.Products))
	for _, p := range s.Products {
		out[p.ID] = p
	}
	return out
}

// RecipeIndex maps recipes by id.
func (s Snapshot) RecipeIndex() map[RecipeID]Recipe {
	out := make(map[RecipeID]Recipe, len(s.Recipes))
	for _, r := range s.Recipes {
		out[r.ID] = r
	}
	return out
}

func indexInputs(inputs []Input) map[InputID]Input {
	out := make(map[InputID]Input, len(inputs))
	for _, in := range inputs {
		out[in.ID] = in
	}
	return out
}
