package production

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/artisan-engine/generic"
)

// =============================================================================
// RECIPE - Inputs in, product out
// =============================================================================

// Ingredient is one line of a recipe. InputID is a weak reference.
type Ingredient struct {
	InputID  InputID         `json:"input_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Recipe turns its ingredients into YieldQuantity units of ProductID.
// Ingredient quantities are per single batch multiplier.
type Recipe struct {
	ID              RecipeID        `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	ProductID       ProductID       `json:"product_id"`
	YieldQuantity   decimal.Decimal `json:"yield_quantity"`
	YieldUnit       string          `json:"yield_unit"`
	Instructions    string          `json:"instructions,omitempty"`
	PreparationTime *int            `json:"preparation_time,omitempty"` // minutes
	Ingredients     []Ingredient    `json:"ingredients"`
	CreatedAt       time.Time       `json:"created_at"`
}

type NewRecipe struct {
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	ProductID       ProductID       `json:"product_id"`
	YieldQuantity   decimal.Decimal `json:"yield_quantity"`
	YieldUnit       string          `json:"yield_unit"`
	Instructions    string          `json:"instructions,omitempty"`
	PreparationTime *int            `json:"preparation_time,omitempty"`
	Ingredients     []Ingredient    `json:"ingredients"`
}

func (n NewRecipe) Validate() error {
	var v generic.Validation
	v.Check(n.Name != "", "name", "is required")
	v.Check(n.ProductID != "", "product_id", "is required")
	v.Check(n.YieldQuantity.IsPositive(), "yield_quantity", "must be positive")
	if n.PreparationTime != nil {
		v.Check(*n.PreparationTime >= 0, "preparation_time", "must not be negative")
	}
	checkIngredients(&v, n.Ingredients)
	return v.Err()
}

// RecipePatch updates the non-nil fields. Ingredients, when set, replace the whole list.
type RecipePatch struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	ProductID       *ProductID       `json:"product_id,omitempty"`
	YieldQuantity   *decimal.Decimal `json:"yield_quantity,omitempty"`
	YieldUnit       *string          `json:"yield_unit,omitempty"`
	Instructions    *string          `json:"instructions,omitempty"`
	PreparationTime *int             `json:"preparation_time,omitempty"`
	Ingredients     *[]Ingredient    `json:"ingredients,omitempty"`
}

func (p RecipePatch) Validate() error {
	var v generic.Validation
	if p.Name != nil {
		v.Check(*p.Name != "", "name", "must not be empty")
	}
	if p.ProductID != nil {
		v.Check(*p.ProductID != "", "product_id", "must not be empty")
	}
	if p.YieldQuantity != nil {
		v.Check(p.YieldQuantity.IsPositive(), "yield_quantity", "must be positive")
	}
	if p.PreparationTime != nil {
		v.Check(*p.PreparationTime >= 0, "preparation_time", "must not be negative")
	}
	if p.Ingredients != nil {
		checkIngredients(&v, *p.Ingredients)
	}
	return v.Err()
}

func (p RecipePatch) apply(r *Recipe) {
	setIf(&r.Name, p.Name)
	setIf(&r.Description, p.Description)
	setIf(&r.ProductID, p.ProductID)
	setIf(&r.YieldQuantity, p.YieldQuantity)
	setIf(&r.YieldUnit, p.YieldUnit)
	setIf(&r.Instructions, p.Instructions)
	if p.PreparationTime != nil {
		minutes := *p.PreparationTime
		r.PreparationTime = &minutes
	}
	if p.Ingredients != nil {
		r.Ingredients = append([]Ingredient(nil), (*p.Ingredients)...)
	}
}

func checkIngredients(v *generic.Validation, ingredients []Ingredient) {
	for i, ing := range ingredients {
		field := fmt.Sprintf("ingredients[%d]", i)
		v.Check(ing.InputID != "", field+".input_id", "is required")
		v.Check(ing.Quantity.IsPositive(), field+".quantity", "must be positive")
	}
}

// =============================================================================
// RECIPE REPOSITORY
// =============================================================================

// RecipeRepository manages the artisan_recipes collection.
type RecipeRepository struct {
	c     *collection[Recipe, RecipeID]
	clock generic.Clock
}

func newRecipeRepository(kv *generic.KV, locker generic.Locker, clock generic.Clock) *RecipeRepository {
	return &RecipeRepository{
		c:     newCollection(KeyRecipes, kv, locker, func(r Recipe) RecipeID { return r.ID }),
		clock: clock,
	}
}

func (r *RecipeRepository) List(ctx context.Context) []Recipe {
	return r.c.list(ctx)
}

func (r *RecipeRepository) Get(ctx context.Context, id RecipeID) (Recipe, bool) {
	return r.c.find(ctx, id)
}

func (r *RecipeRepository) Create(ctx context.Context, n NewRecipe) (Recipe, error) {
	if err := n.Validate(); err != nil {
		return Recipe{}, err
	}
	ingredients := n.Ingredients
	if ingredients == nil {
		ingredients = []Ingredient{}
	}
	rec := Recipe{
		ID:              RecipeID(generic.NewID()),
		Name:            n.Name,
		Description:     n.Description,
		ProductID:       n.ProductID,
		YieldQuantity:   n.YieldQuantity,
		YieldUnit:       n.YieldUnit,
		Instructions:    n.Instructions,
		PreparationTime: n.PreparationTime,
		Ingredients:     ingredients,
		CreatedAt:       r.clock.Now(),
	}
	if err := r.c.append(ctx, rec); err != nil {
		return Recipe{}, err
	}
	return rec, nil
}

func (r *RecipeRepository) Update(ctx context.Context, id RecipeID, p RecipePatch) (Recipe, error) {
	if err := p.Validate(); err != nil {
		return Recipe{}, err
	}
	return r.c.update(ctx, id, func(rec *Recipe) error {
		p.apply(rec)
		return nil
	})
}

func (r *RecipeRepository) Delete(ctx context.Context, id RecipeID) error {
	return r.c.remove(ctx, id)
}
