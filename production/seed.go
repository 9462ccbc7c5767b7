package production

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/artisan-engine/generic"
	"go.uber.org/zap"
)

// =============================================================================
// SAMPLE DATA - A small bakery
// =============================================================================

// Seed loads the sample bakery (5 inputs, 3 products, 3 recipes) when the
// input, product and recipe collections are all empty. Batches and stock
// transactions are never touched. It reports whether anything was written.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	seeded := false
	err := s.withSettlementLock(ctx, func() error {
		if len(s.Inputs.List(ctx)) > 0 || len(s.Products.List(ctx)) > 0 || len(s.Recipes.List(ctx)) > 0 {
			return nil
		}
		inputs, products, recipes := sampleBakery(s.clock)

		// Order matters: recipes reference the inputs and products.
		wroteInputs, err := s.Inputs.c.seed(ctx, inputs)
		if err != nil {
			return err
		}
		wroteProducts, err := s.Products.c.seed(ctx, products)
		if err != nil {
			return err
		}
		wroteRecipes, err := s.Recipes.c.seed(ctx, recipes)
		if err != nil {
			return err
		}
		seeded = wroteInputs || wroteProducts || wroteRecipes
		if seeded && !(wroteInputs && wroteProducts && wroteRecipes) {
			s.log.Warn("sample data partially loaded, a collection was filled concurrently",
				zap.Bool("inputs", wroteInputs),
				zap.Bool("products", wroteProducts),
				zap.Bool("recipes", wroteRecipes),
			)
		}
		return nil
	})
	if seeded {
		s.log.Info("sample data loaded")
	}
	return seeded, err
}

// Reset deletes every collection.
func (s *Service) Reset(ctx context.Context) error {
	return s.withSettlementLock(ctx, func() error {
		s.kv.Clear(ctx, Keys()...)
		s.log.Info("all collections cleared")
		return nil
	})
}

func sampleBakery(clock generic.Clock) ([]Input, []Product, []Recipe) {
	now := clock.Now()
	d := decimal.RequireFromString

	flour := Input{ID: InputID(generic.NewID()), Name: "Wheat Flour", Description: "Type 000 bread flour",
		Unit: "kg", Stock: d("50"), MinStock: d("10"), CostPerUnit: d("2.5"), Supplier: "San Jose Mill", CreatedAt: now}
	sugar := Input{ID: InputID(generic.NewID()), Name: "Sugar", Description: "Refined white sugar",
		Unit: "kg", Stock: d("25"), MinStock: d("5"), CostPerUnit: d("3"), Supplier: "La Esperanza Refinery", CreatedAt: now}
	eggs := Input{ID: InputID(generic.NewID()), Name: "Eggs", Description: "Fresh farm eggs",
		Unit: "unit", Stock: d("100"), MinStock: d("20"), CostPerUnit: d("0.5"), Supplier: "Los Alamos Farm", CreatedAt: now}
	butter := Input{ID: InputID(generic.NewID()), Name: "Butter", Description: "Unsalted butter",
		Unit: "kg", Stock: d("15"), MinStock: d("3"), CostPerUnit: d("8"), Supplier: "Valley Dairy", CreatedAt: now}
	yeast := Input{ID: InputID(generic.NewID()), Name: "Yeast", Description: "Fresh baker's yeast",
		Unit: "kg", Stock: d("2"), MinStock: d("0.5"), CostPerUnit: d("12"), Supplier: "Bakery Supply Co", CreatedAt: now}

	bread := Product{ID: ProductID(generic.NewID()), Name: "Artisan Bread", Description: "Traditional homemade bread",
		Unit: "unit", Stock: decimal.Zero, MinStock: d("5"), CostPerUnit: decimal.Zero, CreatedAt: now}
	cake := Product{ID: ProductID(generic.NewID()), Name: "Chocolate Cake", Description: "Moist chocolate cake",
		Unit: "unit", Stock: decimal.Zero, MinStock: d("2"), CostPerUnit: decimal.Zero, CreatedAt: now}
	cookies := Product{ID: ProductID(generic.NewID()), Name: "Butter Cookies", Description: "Traditional homemade cookies",
		Unit: "dozen", Stock: decimal.Zero, MinStock: d("3"), CostPerUnit: decimal.Zero, CreatedAt: now}

	minutes := func(m int) *int { return &m }

	recipes := []Recipe{
		{
			ID: RecipeID(generic.NewID()), Name: "Traditional Artisan Bread", Description: "Classic homemade bread",
			ProductID: bread.ID, YieldQuantity: d("10"), YieldUnit: "unit", PreparationTime: minutes(180),
			Instructions: "1. Mix flour with yeast\n2. Add warm water gradually\n3. Knead for 10 minutes\n" +
				"4. Proof for 1 hour\n5. Shape and bake at 200C for 25 minutes",
			Ingredients: []Ingredient{
				{InputID: flour.ID, Quantity: d("2")},
				{InputID: yeast.ID, Quantity: d("0.05")},
				{InputID: sugar.ID, Quantity: d("0.1")},
			},
			CreatedAt: now,
		},
		{
			ID: RecipeID(generic.NewID()), Name: "Moist Chocolate Cake", Description: "Sponge cake with chocolate icing",
			ProductID: cake.ID, YieldQuantity: d("1"), YieldUnit: "unit", PreparationTime: minutes(90),
			Instructions: "1. Cream butter with sugar\n2. Add eggs one at a time\n3. Fold in sifted flour\n" +
				"4. Bake at 180C for 45 minutes\n5. Cool before unmolding",
			Ingredients: []Ingredient{
				{InputID: flour.ID, Quantity: d("0.5")},
				{InputID: sugar.ID, Quantity: d("0.3")},
				{InputID: eggs.ID, Quantity: d("4")},
				{InputID: butter.ID, Quantity: d("0.2")},
			},
			CreatedAt: now,
		},
		{
			ID: RecipeID(generic.NewID()), Name: "Butter Cookies", Description: "Crisp traditional cookies",
			ProductID: cookies.ID, YieldQuantity: d("2"), YieldUnit: "dozen", PreparationTime: minutes(60),
			Instructions: "1. Cream butter with sugar\n2. Add eggs\n3. Fold in flour\n" +
				"4. Shape cookies\n5. Bake at 170C for 15 minutes",
			Ingredients: []Ingredient{
				{InputID: flour.ID, Quantity: d("0.3")},
				{InputID: sugar.ID, Quantity: d("0.2")},
				{InputID: eggs.ID, Quantity: d("2")},
				{InputID: butter.ID, Quantity: d("0.15")},
			},
			CreatedAt: now,
		},
	}

	return []Input{flour, sugar, eggs, butter, yeast}, []Product{bread, cake, cookies}, recipes
}
