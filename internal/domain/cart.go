package domain

import "math"

type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "Cash"
	PaymentCard    PaymentMethod = "Card"
	PaymentEWallet PaymentMethod = "E-Wallet"
)

// CartLine is a transient line of the active cart. Price is snapshotted
// from the product at add time and does not track later catalog edits.
type CartLine struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"qty"`
}

// Cart is the in-progress transaction. All monetary figures are derived on
// demand; nothing is cached.
type Cart struct {
	Lines         []CartLine
	DiscountType  DiscountType
	DiscountValue float64
	TaxPercent    float64
	PaymentMethod PaymentMethod
	CashGiven     *float64
}

// NewCart returns an empty cart with Cash preselected.
func NewCart() *Cart {
	return &Cart{DiscountType: DiscountNone, PaymentMethod: PaymentCash}
}

// AddLine increments the quantity of an existing line for the product, or
// prepends a new line with quantity 1 and the product's current price.
func (c *Cart) AddLine(p Product) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity++
			return
		}
	}
	line := CartLine{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 1}
	c.Lines = append([]CartLine{line}, c.Lines...)
}

// SetQuantity sets the quantity of the line at index, clamped to a floor
// of 1. Removing a line is a separate explicit action.
func (c *Cart) SetQuantity(index, qty int) bool {
	if index < 0 || index >= len(c.Lines) {
		return false
	}
	if qty < 1 {
		qty = 1
	}
	c.Lines[index].Quantity = qty
	return true
}

func (c *Cart) Increment(index int) bool {
	if index < 0 || index >= len(c.Lines) {
		return false
	}
	c.Lines[index].Quantity++
	return true
}

// Decrement lowers the quantity by one, clamping at 1.
func (c *Cart) Decrement(index int) bool {
	if index < 0 || index >= len(c.Lines) {
		return false
	}
	if c.Lines[index].Quantity > 1 {
		c.Lines[index].Quantity--
	}
	return true
}

func (c *Cart) RemoveLine(index int) bool {
	if index < 0 || index >= len(c.Lines) {
		return false
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	return true
}

func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, line := range c.Lines {
		sum += line.Price * float64(line.Quantity)
	}
	return sum
}

// DiscountAmount derives the discount from the configured type and value.
// An amount discount is not clamped to the subtotal; Total handles the
// floor instead.
func (c *Cart) DiscountAmount() float64 {
	switch c.DiscountType {
	case DiscountPercent:
		return c.Subtotal() * c.DiscountValue / 100
	case DiscountAmount:
		return c.DiscountValue
	default:
		return 0
	}
}

// TaxAmount applies the tax percent to the discounted subtotal.
func (c *Cart) TaxAmount() float64 {
	return (c.Subtotal() - c.DiscountAmount()) * c.TaxPercent / 100
}

// Total never goes below zero, even when the discount exceeds the subtotal.
func (c *Cart) Total() float64 {
	return math.Max(0, c.Subtotal()-c.DiscountAmount()+c.TaxAmount())
}

// CanCheckout reports whether the cart can be finalized: it must be
// non-empty, and a Cash payment needs cash covering the total.
func (c *Cart) CanCheckout() bool {
	if len(c.Lines) == 0 {
		return false
	}
	if c.PaymentMethod == PaymentCash {
		return c.cash() >= c.Total()
	}
	return true
}

// ChangeDue is the cash change. Non-cash payments always owe zero.
func (c *Cart) ChangeDue() float64 {
	if c.PaymentMethod != PaymentCash {
		return 0
	}
	return math.Max(0, c.cash()-c.Total())
}

// Reset clears the cart back to defaults after a finalized sale. The
// payment method survives on purpose: the register keeps the cashier's
// last selection.
func (c *Cart) Reset() {
	c.Lines = nil
	c.DiscountType = DiscountNone
	c.DiscountValue = 0
	c.TaxPercent = 0
	c.CashGiven = nil
}

func (c *Cart) cash() float64 {
	if c.CashGiven == nil {
		return 0
	}
	return *c.CashGiven
}
