package storage

import (
	"context"
	"encoding/json"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
)

// Collection keys. The names are carried over from the original register's
// data files so existing exports stay importable.
const (
	KeyProducts    = "tp_products"
	KeyIngredients = "tp_ingredients"
	KeySales       = "tp_sales"
)

// Collections adapts a KV store to the three persisted collections. An
// absent key, an unreadable store value, or malformed JSON all load as an
// empty collection rather than an error. Writes surface as StorageError.
type Collections struct {
	kv KV
}

func NewCollections(kv KV) *Collections {
	return &Collections{kv: kv}
}

func (c *Collections) LoadProducts(ctx context.Context) []domain.Product {
	var products []domain.Product
	c.load(ctx, KeyProducts, &products)
	if products == nil {
		products = []domain.Product{}
	}
	return products
}

func (c *Collections) SaveProducts(ctx context.Context, products []domain.Product) error {
	return c.save(ctx, KeyProducts, products)
}

func (c *Collections) LoadIngredients(ctx context.Context) []domain.Ingredient {
	var ingredients []domain.Ingredient
	c.load(ctx, KeyIngredients, &ingredients)
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}
	return ingredients
}

func (c *Collections) SaveIngredients(ctx context.Context, ingredients []domain.Ingredient) error {
	return c.save(ctx, KeyIngredients, ingredients)
}

func (c *Collections) LoadSales(ctx context.Context) []domain.Sale {
	var sales []domain.Sale
	c.load(ctx, KeySales, &sales)
	if sales == nil {
		sales = []domain.Sale{}
	}
	return sales
}

func (c *Collections) SaveSales(ctx context.Context, sales []domain.Sale) error {
	return c.save(ctx, KeySales, sales)
}

func (c *Collections) load(ctx context.Context, key string, target any) {
	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil || !ok || raw == "" {
		return
	}
	// Malformed JSON leaves target at its zero value.
	_ = json.Unmarshal([]byte(raw), target)
}

func (c *Collections) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewStorageError("encoding "+key, err)
	}
	if err := c.kv.Set(ctx, key, string(raw)); err != nil {
		return apperrors.NewStorageError("writing "+key, err)
	}
	return nil
}
