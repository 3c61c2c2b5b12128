// Package pos runs the sale side of the register: the single active cart,
// checkout, the sales history, and refunds.
package pos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"radagast/internal/catalog"
	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
)

// Catalog is what the register needs from the catalog store: product
// lookups for price snapshots and recipe resolution, plus ordered stock
// adjustments that recompute availability and persist.
type Catalog interface {
	ProductByID(id int64) (domain.Product, bool)
	AdjustStock(ctx context.Context, deltas []catalog.StockDelta, clampZero bool) error
}

// SalesRepository persists the sales history collection.
type SalesRepository interface {
	LoadSales(ctx context.Context) []domain.Sale
	SaveSales(ctx context.Context, sales []domain.Sale) error
}

// Register owns the in-progress cart and the sales history. One mutex
// serialises every operation: the register models a single physical till,
// and each user action runs to completion before the next.
type Register struct {
	mu      sync.Mutex
	catalog Catalog
	sales   SalesRepository
	logger  *zap.Logger

	cart        *domain.Cart
	history     []domain.Sale
	lastSaleRef int64
}

func NewRegister(cat Catalog, sales SalesRepository, logger *zap.Logger) *Register {
	return &Register{
		catalog: cat,
		sales:   sales,
		logger:  logger,
		cart:    domain.NewCart(),
	}
}

// Load reads the persisted sales history.
func (r *Register) Load(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = r.sales.LoadSales(ctx)
}

// Cart returns a copy of the active cart.
func (r *Register) Cart() domain.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := *r.cart
	cart.Lines = make([]domain.CartLine, len(r.cart.Lines))
	copy(cart.Lines, r.cart.Lines)
	return cart
}

// AddProduct adds one unit of the product to the cart, snapshotting its
// current price.
func (r *Register) AddProduct(productID int64) (domain.Cart, error) {
	product, ok := r.catalog.ProductByID(productID)
	if !ok {
		return domain.Cart{}, apperrors.NewNotFoundError(fmt.Sprintf("product %d not found", productID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.AddLine(product)
	return r.cartCopyLocked(), nil
}

// SetLineQuantity sets a line's quantity (floor 1).
func (r *Register) SetLineQuantity(index, qty int) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.cart.SetQuantity(index, qty) {
		return domain.Cart{}, apperrors.NewNotFoundError("cart line not found")
	}
	return r.cartCopyLocked(), nil
}

func (r *Register) RemoveLine(index int) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.cart.RemoveLine(index) {
		return domain.Cart{}, apperrors.NewNotFoundError("cart line not found")
	}
	return r.cartCopyLocked(), nil
}

// SetDiscount configures the cart discount.
func (r *Register) SetDiscount(discountType domain.DiscountType, value float64) (domain.Cart, error) {
	switch discountType {
	case domain.DiscountNone, domain.DiscountPercent, domain.DiscountAmount:
	default:
		return domain.Cart{}, apperrors.NewValidationError("invalid discount type", apperrors.ValidationDetail{
			Field:   "discountType",
			Message: "discountType must be one of none, percent, amount",
		})
	}
	if value < 0 {
		return domain.Cart{}, apperrors.NewValidationError("invalid discount value", apperrors.ValidationDetail{
			Field:   "discountValue",
			Message: "discountValue must be non-negative",
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.DiscountType = discountType
	r.cart.DiscountValue = value
	return r.cartCopyLocked(), nil
}

func (r *Register) SetTaxPercent(pct float64) (domain.Cart, error) {
	if pct < 0 {
		return domain.Cart{}, apperrors.NewValidationError("invalid tax percent", apperrors.ValidationDetail{
			Field:   "taxPercent",
			Message: "taxPercent must be non-negative",
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.TaxPercent = pct
	return r.cartCopyLocked(), nil
}

// SetPayment selects the payment method and, for Cash, the cash given.
func (r *Register) SetPayment(method domain.PaymentMethod, cashGiven *float64) (domain.Cart, error) {
	switch method {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentEWallet:
	default:
		return domain.Cart{}, apperrors.NewValidationError("invalid payment method", apperrors.ValidationDetail{
			Field:   "paymentMethod",
			Message: "paymentMethod must be one of Cash, Card, E-Wallet",
		})
	}
	if cashGiven != nil && *cashGiven < 0 {
		return domain.Cart{}, apperrors.NewValidationError("invalid cash amount", apperrors.ValidationDetail{
			Field:   "cashGiven",
			Message: "cashGiven must be non-negative",
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.PaymentMethod = method
	if method == domain.PaymentCash {
		r.cart.CashGiven = cashGiven
	} else {
		r.cart.CashGiven = nil
	}
	return r.cartCopyLocked(), nil
}

// Checkout finalizes the cart into an immutable sale. Validation happens
// before any mutation; after it passes, the sale's stock effect is applied
// per item in line order, each recipe deduction clamped at zero. A missing
// product (deleted after it entered the cart) or a missing ingredient is
// skipped silently. Insufficient stock at this point is not an error
// either: availability was judged at add-to-cart time by the coarse
// depleted-ingredient check.
func (r *Register) Checkout(ctx context.Context) (domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.cart.Lines) == 0 {
		return domain.Sale{}, apperrors.NewEmptyCartError()
	}
	if r.cart.PaymentMethod == domain.PaymentCash {
		given := 0.0
		if r.cart.CashGiven != nil {
			given = *r.cart.CashGiven
		}
		if total := r.cart.Total(); given < total {
			return domain.Sale{}, apperrors.NewInsufficientPaymentError(total, given)
		}
	}

	sale := domain.SnapshotSale(r.nextSaleIDLocked(), time.Now().UTC(), r.cart)

	if err := r.catalog.AdjustStock(ctx, r.stockDeltas(sale, -1), true); err != nil {
		return domain.Sale{}, err
	}

	r.history = append([]domain.Sale{sale}, r.history...)
	if err := r.sales.SaveSales(ctx, r.history); err != nil {
		return domain.Sale{}, err
	}

	r.cart.Reset()

	r.logger.Info("sale finalized",
		zap.String("saleId", sale.ID),
		zap.Int("items", len(sale.Items)),
		zap.Float64("total", sale.Total),
		zap.String("paymentMethod", string(sale.PaymentMethod)))

	return sale, nil
}

// Refund reverses a sale's stock effect and marks it refunded. The
// transition is one-way: refunding an already-refunded sale fails without
// touching stock. Quantities are restored from the product's current
// recipe, not a recipe snapshot taken at sale time; if the recipe was
// edited in between, the restored amounts follow the edited recipe.
func (r *Register) Refund(ctx context.Context, saleID string) (domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.history {
		if r.history[i].ID == saleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Sale{}, apperrors.NewNotFoundError(fmt.Sprintf("sale %s not found", saleID))
	}
	if r.history[idx].Refunded {
		return domain.Sale{}, apperrors.NewAlreadyRefundedError(saleID)
	}

	if err := r.catalog.AdjustStock(ctx, r.stockDeltas(r.history[idx], 1), false); err != nil {
		return domain.Sale{}, err
	}

	now := time.Now().UTC()
	r.history[idx].Refunded = true
	r.history[idx].RefundedAt = &now

	if err := r.sales.SaveSales(ctx, r.history); err != nil {
		return domain.Sale{}, err
	}

	r.logger.Info("sale refunded", zap.String("saleId", saleID))
	return r.history[idx], nil
}

// Sales returns the history, newest first.
func (r *Register) Sales() []domain.Sale {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Sale, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Register) SaleByID(id string) (domain.Sale, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sale := range r.history {
		if sale.ID == id {
			return sale, true
		}
	}
	return domain.Sale{}, false
}

// Summary aggregates the history for the sales overview.
type Summary struct {
	SaleCount     int     `json:"saleCount"`
	RefundedCount int     `json:"refundedCount"`
	GrossTotal    float64 `json:"grossTotal"`
	NetTotal      float64 `json:"netTotal"`
}

func (r *Register) Summarize() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s Summary
	for _, sale := range r.history {
		s.SaleCount++
		s.GrossTotal += sale.Total
		if sale.Refunded {
			s.RefundedCount++
		} else {
			s.NetTotal += sale.Total
		}
	}
	return s
}

// stockDeltas builds the ordered stock adjustments for a sale: one delta
// per recipe line per item, scaled by the item quantity and the given
// sign. Items whose product no longer exists contribute nothing.
func (r *Register) stockDeltas(sale domain.Sale, sign float64) []catalog.StockDelta {
	var deltas []catalog.StockDelta
	for _, item := range sale.Items {
		product, ok := r.catalog.ProductByID(item.ProductID)
		if !ok {
			continue
		}
		for _, line := range product.Recipe {
			deltas = append(deltas, catalog.StockDelta{
				Ingredient: line.IngredientName,
				Delta:      sign * line.Quantity * float64(item.Quantity),
			})
		}
	}
	return deltas
}

func (r *Register) nextSaleIDLocked() string {
	ref := time.Now().UnixMilli()
	if ref <= r.lastSaleRef {
		ref = r.lastSaleRef + 1
	}
	r.lastSaleRef = ref
	return fmt.Sprintf("SALE-%d", ref)
}

func (r *Register) cartCopyLocked() domain.Cart {
	cart := *r.cart
	cart.Lines = make([]domain.CartLine, len(r.cart.Lines))
	copy(cart.Lines, r.cart.Lines)
	return cart
}
