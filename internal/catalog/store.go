// Package catalog owns the product and ingredient collections. All
// mutations go through the Store, which recomputes cached product
// statuses and persists both collections whole after every change.
package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
	"radagast/internal/storage"
)

// StockDelta is one ordered stock adjustment against a named ingredient.
// Deltas referencing unknown ingredients are skipped, not rejected.
type StockDelta struct {
	Ingredient string
	Delta      float64
}

// Store holds the catalog in memory and writes it through to the
// collection store on every mutation. A single mutex serialises access;
// the register is a one-cashier device and mutations are short.
type Store struct {
	mu          sync.Mutex
	collections *storage.Collections
	logger      *zap.Logger
	seedDemo    bool

	products    []domain.Product
	ingredients []domain.Ingredient

	lastID int64
}

func NewStore(collections *storage.Collections, logger *zap.Logger, seedDemo bool) *Store {
	return &Store{
		collections: collections,
		logger:      logger,
		seedDemo:    seedDemo,
	}
}

// Load reads both collections from the store, seeding the demo catalog
// when the store is empty and seeding is enabled, and brings every cached
// status up to date.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = s.collections.LoadProducts(ctx)
	s.ingredients = s.collections.LoadIngredients(ctx)

	if s.seedDemo && len(s.products) == 0 && len(s.ingredients) == 0 {
		s.seedDefaults()
		s.logger.Info("seeded demo catalog",
			zap.Int("products", len(s.products)),
			zap.Int("ingredients", len(s.ingredients)))
	}

	return s.refreshStatusesLocked(ctx)
}

// Products returns a copy of the product collection in display order.
func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Ingredients() []domain.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Ingredient, len(s.ingredients))
	copy(out, s.ingredients)
	return out
}

func (s *Store) ProductByID(id int64) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// StockSnapshot returns the current name -> quantity map.
func (s *Store) StockSnapshot() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.StockByName(s.ingredients)
}

// UpsertProduct inserts or replaces a product. A zero ID means insert: the
// store assigns a fresh time-derived ID, bumped past the last issued one
// so same-millisecond inserts cannot collide. New products go to the front
// of the collection.
func (s *Store) UpsertProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.nextIDLocked()
	}

	replaced := false
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		s.products = append([]domain.Product{p}, s.products...)
	}

	if err := s.refreshStatusesLocked(ctx); err != nil {
		return domain.Product{}, err
	}

	stored, _ := s.productByIDLocked(p.ID)
	s.logger.Info("product upserted", zap.Int64("productId", p.ID), zap.String("name", p.Name), zap.Bool("replaced", replaced))
	return stored, nil
}

func (s *Store) RemoveProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.logger.Info("product removed", zap.Int64("productId", id))
			return s.refreshStatusesLocked(ctx)
		}
	}
	return apperrors.NewNotFoundError("product not found")
}

// UpsertIngredient inserts or replaces an ingredient by name.
func (s *Store) UpsertIngredient(ctx context.Context, ing domain.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.ingredients {
		if s.ingredients[i].Name == ing.Name {
			s.ingredients[i] = ing
			replaced = true
			break
		}
	}
	if !replaced {
		s.ingredients = append(s.ingredients, ing)
	}
	return s.refreshStatusesLocked(ctx)
}

// SetIngredientStock overwrites an ingredient's available quantity.
func (s *Store) SetIngredientStock(ctx context.Context, name string, qty float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ingredients {
		if s.ingredients[i].Name == name {
			s.ingredients[i].AvailableQuantity = qty
			return s.refreshStatusesLocked(ctx)
		}
	}
	return apperrors.NewNotFoundError("ingredient not found")
}

// AdjustStock applies the deltas in order. With clampZero set, every
// application floors the running quantity at zero, so stock never goes
// negative even when a sale oversells; without it the adjustment is
// unbounded (refunds). Unknown ingredient names are skipped. Statuses are
// recomputed and both collections persisted afterwards.
func (s *Store) AdjustStock(ctx context.Context, deltas []StockDelta, clampZero bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int, len(s.ingredients))
	for i, ing := range s.ingredients {
		index[ing.Name] = i
	}

	for _, d := range deltas {
		i, ok := index[d.Ingredient]
		if !ok {
			continue
		}
		next := s.ingredients[i].AvailableQuantity + d.Delta
		if clampZero && next < 0 {
			next = 0
		}
		s.ingredients[i].AvailableQuantity = next
	}

	return s.refreshStatusesLocked(ctx)
}

// RefreshStatuses recomputes every product's cached status from current
// stock and persists both collections.
func (s *Store) RefreshStatuses(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshStatusesLocked(ctx)
}

// ImportProducts prepends the given products with fresh IDs, preserving
// their order, then refreshes statuses. Returns how many were added.
func (s *Store) ImportProducts(ctx context.Context, imported []domain.Product) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range imported {
		imported[i].ID = s.nextIDLocked()
	}
	s.products = append(imported, s.products...)

	if err := s.refreshStatusesLocked(ctx); err != nil {
		return 0, err
	}
	s.logger.Info("products imported", zap.Int("count", len(imported)))
	return len(imported), nil
}

func (s *Store) refreshStatusesLocked(ctx context.Context) error {
	stock := domain.StockByName(s.ingredients)
	for i := range s.products {
		s.products[i].Status = domain.ResolveStatus(s.products[i], stock)
	}

	if err := s.collections.SaveProducts(ctx, s.products); err != nil {
		return err
	}
	return s.collections.SaveIngredients(ctx, s.ingredients)
}

func (s *Store) productByIDLocked(id int64) (domain.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *Store) nextIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
