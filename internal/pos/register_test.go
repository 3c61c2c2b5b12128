package pos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"radagast/internal/catalog"
	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
	"radagast/internal/storage"
)

type fixture struct {
	register    *Register
	catalog     *catalog.Store
	collections *storage.Collections
}

// newFixture builds a register over a real catalog store and in-memory KV,
// pre-stocked with the pizza demo data the register was designed around.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	collections := storage.NewCollections(storage.NewMemoryKV())
	store := catalog.NewStore(collections, zap.NewNop(), false)
	require.NoError(t, store.Load(ctx))

	for _, ing := range []domain.Ingredient{
		{Name: "Mozzarella Cheese", StockUnit: "kg", AvailableQuantity: 2},
		{Name: "Tomato Sauce", StockUnit: "L", AvailableQuantity: 3},
		{Name: "Basil", StockUnit: "g", AvailableQuantity: 10},
	} {
		require.NoError(t, store.UpsertIngredient(ctx, ing))
	}

	register := NewRegister(store, collections, zap.NewNop())
	register.Load(ctx)
	return &fixture{register: register, catalog: store, collections: collections}
}

func (f *fixture) addProduct(t *testing.T, p domain.Product) domain.Product {
	t.Helper()
	stored, err := f.catalog.UpsertProduct(context.Background(), p)
	require.NoError(t, err)
	return stored
}

func (f *fixture) stock(name string) float64 {
	return f.catalog.StockSnapshot()[name]
}

func float64Ptr(v float64) *float64 {
	return &v
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.register.Checkout(context.Background())

	_, ok := apperrors.IsEmptyCartError(err)
	assert.True(t, ok)
}

func TestCheckout_InsufficientCash(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, domain.Product{Name: "Item", Price: 100,
		Recipe: []domain.RecipeLine{{IngredientName: "Basil", Quantity: 1}}})

	_, err := f.register.AddProduct(p.ID)
	require.NoError(t, err)
	_, err = f.register.SetLineQuantity(0, 2)
	require.NoError(t, err)
	_, err = f.register.SetDiscount(domain.DiscountPercent, 10)
	require.NoError(t, err)
	_, err = f.register.SetTaxPercent(5)
	require.NoError(t, err)
	_, err = f.register.SetPayment(domain.PaymentCash, float64Ptr(100))
	require.NoError(t, err)

	_, err = f.register.Checkout(context.Background())

	ipe, ok := apperrors.IsInsufficientPaymentError(err)
	require.True(t, ok)
	assert.InDelta(t, 189, ipe.Total, 1e-9)
	assert.InDelta(t, 100, ipe.Given, 1e-9)

	// Validation failed before any mutation: stock untouched, cart intact.
	assert.Equal(t, 10.0, f.stock("Basil"))
	assert.Len(t, f.register.Cart().Lines, 1)
}

func TestCheckout_DeductsStockAndRecordsSale(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, domain.Product{Name: "Margherita Pizza", Price: 350,
		Recipe: []domain.RecipeLine{
			{IngredientName: "Mozzarella Cheese", Quantity: 0.2},
			{IngredientName: "Tomato Sauce", Quantity: 0.1},
		}})

	_, err := f.register.AddProduct(pizza.ID)
	require.NoError(t, err)
	_, err = f.register.SetLineQuantity(0, 3)
	require.NoError(t, err)
	_, err = f.register.SetPayment(domain.PaymentCash, float64Ptr(2000))
	require.NoError(t, err)

	sale, err := f.register.Checkout(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 1.4, f.stock("Mozzarella Cheese"), 1e-9)
	assert.InDelta(t, 2.7, f.stock("Tomato Sauce"), 1e-9)

	// 1.4kg > 0, so the product stays Available under the coarse check.
	stored, _ := f.catalog.ProductByID(pizza.ID)
	assert.Equal(t, domain.StatusAvailable, stored.Status)

	assert.InDelta(t, 1050, sale.Total, 1e-9)
	require.NotNil(t, sale.CashGiven)
	assert.InDelta(t, 2000, *sale.CashGiven, 1e-9)
	require.NotNil(t, sale.Change)
	assert.InDelta(t, 950, *sale.Change, 1e-9)
	assert.False(t, sale.Refunded)

	history := f.register.Sales()
	require.Len(t, history, 1)
	assert.Equal(t, sale.ID, history[0].ID)

	// The sale was persisted, not just cached.
	persisted := f.collections.LoadSales(context.Background())
	require.Len(t, persisted, 1)
	assert.Equal(t, sale.ID, persisted[0].ID)
}

func TestCheckout_ClearsCartButKeepsPaymentMethod(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, domain.Product{Name: "Item", Price: 50,
		Recipe: []domain.RecipeLine{{IngredientName: "Basil", Quantity: 1}}})

	_, err := f.register.AddProduct(p.ID)
	require.NoError(t, err)
	_, err = f.register.SetPayment(domain.PaymentEWallet, nil)
	require.NoError(t, err)

	_, err = f.register.Checkout(context.Background())
	require.NoError(t, err)

	cart := f.register.Cart()
	assert.Empty(t, cart.Lines)
	assert.Equal(t, domain.DiscountNone, cart.DiscountType)
	assert.Nil(t, cart.CashGiven)
	assert.Equal(t, domain.PaymentEWallet, cart.PaymentMethod)

	// A second checkout without a new cart fails.
	_, err = f.register.Checkout(context.Background())
	_, ok := apperrors.IsEmptyCartError(err)
	assert.True(t, ok)
}

func TestCheckout_DeductionClampsAtZeroWithoutError(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, domain.Product{Name: "Margherita Pizza", Price: 350,
		Recipe: []domain.RecipeLine{{IngredientName: "Mozzarella Cheese", Quantity: 0.2}}})

	// qty 8 wants 1.6kg; after a prior sale of qty 3 only 1.4kg remains.
	_, err := f.register.AddProduct(pizza.ID)
	require.NoError(t, err)
	_, err = f.register.SetLineQuantity(0, 3)
	require.NoError(t, err)
	_, err = f.register.SetPayment(domain.PaymentCard, nil)
	require.NoError(t, err)
	_, err = f.register.Checkout(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 1.4, f.stock("Mozzarella Cheese"), 1e-9)

	_, err = f.register.AddProduct(pizza.ID)
	require.NoError(t, err)
	_, err = f.register.SetLineQuantity(0, 8)
	require.NoError(t, err)

	_, err = f.register.Checkout(context.Background())
	require.NoError(t, err, "overselling is not a checkout error")

	assert.Equal(t, 0.0, f.stock("Mozzarella Cheese"), "clamped to exactly zero, never negative")

	stored, _ := f.catalog.ProductByID(pizza.ID)
	assert.Equal(t, domain.StatusUnavailable, stored.Status)
}

// Two cart lines can share an ingredient and jointly exceed stock even
// though each product passed the coarse depleted-only availability check.
// The engine clamps rather than rejects; this test pins that tension down
// as intended behavior.
func TestCheckout_JointOversellAcrossLinesClamps(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.catalog.SetIngredientStock(context.Background(), "Mozzarella Cheese", 0.3))

	a := f.addProduct(t, domain.Product{Name: "A", Price: 100,
		Recipe: []domain.RecipeLine{{IngredientName: "Mozzarella Cheese", Quantity: 0.2}}})
	b := f.addProduct(t, domain.Product{Name: "B", Price: 120,
		Recipe: []domain.RecipeLine{{IngredientName: "Mozzarella Cheese", Quantity: 0.2}}})

	// Both products individually read Available at 0.3kg.
	storedA, _ := f.catalog.ProductByID(a.ID)
	storedB, _ := f.catalog.ProductByID(b.ID)
	require.Equal(t, domain.StatusAvailable, storedA.Status)
	require.Equal(t, domain.StatusAvailable, storedB.Status)

	_, err := f.register.AddProduct(a.ID)
	require.NoError(t, err)
	_, err = f.register.AddProduct(b.ID)
	require.NoError(t, err)
	_, err = f.register.SetPayment(domain.PaymentCard, nil)
	require.NoError(t, err)

	_, err = f.register.Checkout(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, f.stock("Mozzarella Cheese"))
}

func TestCheckout_SkipsOrphanedLinesAndMissingIngredients(t *testing.T) {
	f := newFixture(t)
	ghost := f.addProduct(t, domain.Product{Name: "Ghost", Price: 10,
		Recipe: []domain.RecipeLine{{IngredientName: "Basil", Quantity: 5}}})
	phantom := f.addProduct(t, domain.Product{Name: "Phantom Dip", Price: 20,
		Recipe: []domain.RecipeLine{
			{IngredientName: "Secret Sauce", Quantity: 1},
			{IngredientName: "Basil", Quantity: 2},
		}})

	_, err := f.register.AddProduct(ghost.ID)
	require.NoError(t, err)
	_, err = f.register.AddProduct(phantom.ID)
	require.NoError(t, err)
	_, err = f.register.SetPayment(domain.PaymentCard, nil)
	require.NoError(t, err)

	// Delete ghost after it entered the cart: its line becomes orphaned
	// and must contribute no stock effect.
	require.NoError(t, f.catalog.RemoveProduct(context.Background(), ghost.ID))

	sale, err := f.register.Checkout(context.Background())
	require.NoError(t, err)

	assert.Len(t, sale.Items, 2, "the orphaned line still appears on the sale record")
	assert.Equal(t, 8.0, f.stock("Basil"), "only the surviving product's Basil line deducted")
	_, exists := f.catalog.StockSnapshot()["Secret Sauce"]
	assert.False(t, exists, "unknown ingredient stays unknown, no error")
}

func TestRefund_RestoresStockRoundTrip(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, domain.Product{Name: "Margherita Pizza", Price: 350,
		Recipe: []domain.RecipeLine{
			{IngredientName: "Mozzarella Cheese", Quantity: 0.2},
			{IngredientName: "Tomato Sauce", Quantity: 0.1},
		}})

	before := f.catalog.StockSnapshot()

	_, err := f.register.AddProduct(pizza.ID)
	require.NoError(t, err)
	_, err = f.register.SetLineQuantity(0, 4)
	require.NoError(t, err)
	_, err = f.register.SetPayment(domain.PaymentCard, nil)
	require.NoError(t, err)

	sale, err := f.register.Checkout(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 1.2, f.stock("Mozzarella Cheese"), 1e-9)

	refunded, err := f.register.Refund(context.Background(), sale.ID)
	require.NoError(t, err)

	assert.True(t, refunded.Refunded)
	assert.NotNil(t, refunded.RefundedAt)

	after := f.catalog.StockSnapshot()
	for name, qty := range before {
		assert.InDelta(t, qty, after[name], 1e-9, name)
	}

	// Refund survives persistence.
	persisted := f.collections.LoadSales(context.Background())
	require.Len(t, persisted, 1)
	assert.True(t, persisted[0].Refunded)
}

func TestRefund_SecondRefundFailsAndLeavesStockAlone(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, domain.Product{Name: "Item", Price: 10,
		Recipe: []domain.RecipeLine{{IngredientName: "Basil", Quantity: 2}}})

	_, err := f.register.AddProduct(p.ID)
	require.NoError(t, err)
	_, err = f.register.SetPayment(domain.PaymentCard, nil)
	require.NoError(t, err)
	sale, err := f.register.Checkout(context.Background())
	require.NoError(t, err)

	_, err = f.register.Refund(context.Background(), sale.ID)
	require.NoError(t, err)
	stockAfterFirst := f.stock("Basil")

	_, err = f.register.Refund(context.Background(), sale.ID)
	_, ok := apperrors.IsAlreadyRefundedError(err)
	assert.True(t, ok)
	assert.Equal(t, stockAfterFirst, f.stock("Basil"), "second refund must not touch stock")
}

func TestRefund_UnknownSale(t *testing.T) {
	f := newFixture(t)

	_, err := f.register.Refund(context.Background(), "SALE-404")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

// Refund restores quantities from the recipe as it exists at refund time.
// When the recipe was edited between sale and refund, the restored amounts
// follow the edited recipe, not the one actually consumed.
func TestRefund_UsesCurrentRecipeNotSaleTimeSnapshot(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, domain.Product{Name: "Item", Price: 10,
		Recipe: []domain.RecipeLine{{IngredientName: "Basil", Quantity: 2}}})

	_, err := f.register.AddProduct(p.ID)
	require.NoError(t, err)
	_, err = f.register.SetPayment(domain.PaymentCard, nil)
	require.NoError(t, err)
	sale, err := f.register.Checkout(context.Background())
	require.NoError(t, err)
	require.Equal(t, 8.0, f.stock("Basil"))

	p.Recipe = []domain.RecipeLine{{IngredientName: "Basil", Quantity: 5}}
	_, err = f.catalog.UpsertProduct(context.Background(), p)
	require.NoError(t, err)

	_, err = f.register.Refund(context.Background(), sale.ID)
	require.NoError(t, err)

	assert.Equal(t, 13.0, f.stock("Basil"), "restored 5, not the 2 that was deducted")
}

func TestCheckout_SaleIDsAreUnique(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, domain.Product{Name: "Item", Price: 10,
		Recipe: []domain.RecipeLine{{IngredientName: "Basil", Quantity: 0.1}}})

	seen := make(map[string]bool)
	var last domain.Sale
	for i := 0; i < 5; i++ {
		_, err := f.register.AddProduct(p.ID)
		require.NoError(t, err)
		_, err = f.register.SetPayment(domain.PaymentCard, nil)
		require.NoError(t, err)
		sale, err := f.register.Checkout(context.Background())
		require.NoError(t, err)
		assert.False(t, seen[sale.ID], "duplicate sale id %s", sale.ID)
		seen[sale.ID] = true
		last = sale
	}

	history := f.register.Sales()
	require.Len(t, history, 5)
	assert.Equal(t, last.ID, history[0].ID, "newest first")
}

func TestStockNeverNegative_AcrossRandomishSequence(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, domain.Product{Name: "Item", Price: 10,
		Recipe: []domain.RecipeLine{{IngredientName: "Olive Drizzle", Quantity: 3}}})
	require.NoError(t, f.catalog.UpsertIngredient(context.Background(), domain.Ingredient{Name: "Olive Drizzle", StockUnit: "L", AvailableQuantity: 4}))

	var refundable []string
	for i := 0; i < 4; i++ {
		_, err := f.register.AddProduct(p.ID)
		require.NoError(t, err)
		_, err = f.register.SetLineQuantity(0, i+1)
		require.NoError(t, err)
		_, err = f.register.SetPayment(domain.PaymentCard, nil)
		require.NoError(t, err)
		sale, err := f.register.Checkout(context.Background())
		require.NoError(t, err)
		if i%2 == 0 {
			refundable = append(refundable, sale.ID)
		}

		for _, ing := range f.catalog.Ingredients() {
			assert.GreaterOrEqual(t, ing.AvailableQuantity, 0.0, ing.Name)
		}
	}

	for _, id := range refundable {
		_, err := f.register.Refund(context.Background(), id)
		require.NoError(t, err)
		for _, ing := range f.catalog.Ingredients() {
			assert.GreaterOrEqual(t, ing.AvailableQuantity, 0.0, ing.Name)
		}
	}
}

func TestSummarize(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, domain.Product{Name: "Item", Price: 100,
		Recipe: []domain.RecipeLine{{IngredientName: "Basil", Quantity: 0.1}}})

	var first domain.Sale
	for i := 0; i < 3; i++ {
		_, err := f.register.AddProduct(p.ID)
		require.NoError(t, err)
		_, err = f.register.SetPayment(domain.PaymentCard, nil)
		require.NoError(t, err)
		sale, err := f.register.Checkout(context.Background())
		require.NoError(t, err)
		if i == 0 {
			first = sale
		}
	}

	_, err := f.register.Refund(context.Background(), first.ID)
	require.NoError(t, err)

	summary := f.register.Summarize()
	assert.Equal(t, 3, summary.SaleCount)
	assert.Equal(t, 1, summary.RefundedCount)
	assert.InDelta(t, 300, summary.GrossTotal, 1e-9)
	assert.InDelta(t, 200, summary.NetTotal, 1e-9)
}

func TestRegister_LoadReadsPersistedHistory(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, domain.Product{Name: "Item", Price: 10,
		Recipe: []domain.RecipeLine{{IngredientName: "Basil", Quantity: 1}}})

	_, err := f.register.AddProduct(p.ID)
	require.NoError(t, err)
	_, err = f.register.SetPayment(domain.PaymentCard, nil)
	require.NoError(t, err)
	sale, err := f.register.Checkout(context.Background())
	require.NoError(t, err)

	fresh := NewRegister(f.catalog, f.collections, zap.NewNop())
	fresh.Load(context.Background())

	loaded, ok := fresh.SaleByID(sale.ID)
	assert.True(t, ok)
	assert.Equal(t, sale.Total, loaded.Total)
}

func TestAddProduct_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.register.AddProduct(999)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
