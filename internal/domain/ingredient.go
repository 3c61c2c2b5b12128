package domain

// Ingredient is a raw material consumed by product recipes. Name is the
// unique key; StockUnit is display-only.
type Ingredient struct {
	Name              string  `json:"name"`
	StockUnit         string  `json:"stockUnit"`
	AvailableQuantity float64 `json:"availableQuantity"`
}

// StockByName collapses an ingredient collection into a name -> quantity
// lookup. Later duplicates win, mirroring how the collection is persisted.
func StockByName(ingredients []Ingredient) map[string]float64 {
	stock := make(map[string]float64, len(ingredients))
	for _, ing := range ingredients {
		stock[ing.Name] = ing.AvailableQuantity
	}
	return stock
}
