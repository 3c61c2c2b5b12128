package catalog

import "radagast/internal/domain"

// seedDefaults installs the demo catalog used on a fresh install. Caller
// holds the lock.
func (s *Store) seedDefaults() {
	s.ingredients = []domain.Ingredient{
		{Name: "Mozzarella Cheese", StockUnit: "kg", AvailableQuantity: 2},
		{Name: "Tomato Sauce", StockUnit: "L", AvailableQuantity: 3},
		{Name: "Basil", StockUnit: "g", AvailableQuantity: 10},
		{Name: "Olive Oil", StockUnit: "L", AvailableQuantity: 1},
	}

	base := s.nextIDLocked()
	s.lastID = base + 4
	s.products = []domain.Product{
		{
			ID: base, Name: "Margherita Pizza", Category: "Pizza", Price: 350,
			Recipe: []domain.RecipeLine{
				{IngredientName: "Mozzarella Cheese", Quantity: 0.2},
				{IngredientName: "Tomato Sauce", Quantity: 0.1},
				{IngredientName: "Basil", Quantity: 1},
			},
		},
		{
			ID: base + 1, Name: "Pepperoni Pizza", Category: "Pizza", Price: 420,
			Recipe: []domain.RecipeLine{
				{IngredientName: "Mozzarella Cheese", Quantity: 0.25},
				{IngredientName: "Tomato Sauce", Quantity: 0.1},
			},
		},
		{
			ID: base + 2, Name: "Cheese Bread", Category: "Pastries", Price: 80,
			Recipe: []domain.RecipeLine{
				{IngredientName: "Mozzarella Cheese", Quantity: 0.1},
				{IngredientName: "Olive Oil", Quantity: 0.02},
			},
		},
		{
			ID: base + 3, Name: "Basil Bread", Category: "Pastries", Price: 90,
			Recipe: []domain.RecipeLine{
				{IngredientName: "Basil", Quantity: 2},
				{IngredientName: "Olive Oil", Quantity: 0.02},
			},
		},
		{
			ID: base + 4, Name: "Tomato Basil Dip", Category: "Beverages", Price: 60,
			Recipe: []domain.RecipeLine{
				{IngredientName: "Tomato Sauce", Quantity: 0.2},
				{IngredientName: "Basil", Quantity: 1},
				{IngredientName: "Olive Oil", Quantity: 0.02},
			},
		},
	}
}
