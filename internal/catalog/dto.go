package catalog

type RecipeLineRequest struct {
	IngredientName string  `json:"ingredientName"`
	Quantity       float64 `json:"quantity"`
}

type ProductRequest struct {
	Name     string              `json:"name"`
	Category string              `json:"category"`
	Price    float64             `json:"price"`
	ImageURL string              `json:"imageUrl"`
	Barcode  string              `json:"barcode"`
	Recipe   []RecipeLineRequest `json:"recipe"`
}

type IngredientRequest struct {
	Name              string  `json:"name"`
	StockUnit         string  `json:"stockUnit"`
	AvailableQuantity float64 `json:"availableQuantity"`
}

type SetStockRequest struct {
	AvailableQuantity float64 `json:"availableQuantity"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}
