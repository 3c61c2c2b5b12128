package domain

import "math"

// Status is the derived availability flag on a product. It is a persisted
// cache of ResolveStatus, never an authoritative field: every stock or
// recipe mutation must recompute it.
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusUnavailable Status = "Unavailable"
)

// RecipeLine is one (ingredient, quantity-per-unit-sold) entry of a recipe.
// IngredientName references Ingredient.Name; a dangling reference is treated
// as depleted stock, not as an error.
type RecipeLine struct {
	IngredientName string  `json:"ingredientName"`
	Quantity       float64 `json:"quantity"`
}

// Product is a sellable catalog entry.
type Product struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Category string       `json:"category"`
	Price    float64      `json:"price"`
	ImageRef string       `json:"imageUrl"`
	Barcode  string       `json:"barcode,omitempty"`
	Recipe   []RecipeLine `json:"recipe"`
	Status   Status       `json:"status"`
}

// ResolveStatus computes availability from current stock. A product with no
// recipe is Unavailable; otherwise it is Unavailable as soon as any recipe
// ingredient has stock <= 0 or is missing from the map.
//
// The threshold is deliberately "stock > 0" per ingredient, not
// "stock >= recipe quantity": a product is only flagged out once an
// ingredient is fully depleted, even if the remainder cannot cover one
// more unit.
func ResolveStatus(p Product, stockByName map[string]float64) Status {
	if len(p.Recipe) == 0 {
		return StatusUnavailable
	}
	for _, line := range p.Recipe {
		available := stockByName[line.IngredientName]
		if available <= 0 || math.IsNaN(available) {
			return StatusUnavailable
		}
	}
	return StatusAvailable
}
