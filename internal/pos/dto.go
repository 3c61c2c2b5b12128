package pos

import (
	"time"

	"radagast/internal/domain"
)

type AddItemRequest struct {
	ProductID int64 `json:"productId"`
}

type SetQuantityRequest struct {
	Quantity int `json:"qty"`
}

type SetDiscountRequest struct {
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
}

type SetTaxRequest struct {
	TaxPercent float64 `json:"taxPercent"`
}

type SetPaymentRequest struct {
	PaymentMethod string   `json:"paymentMethod"`
	CashGiven     *float64 `json:"cashGiven"`
}

// CartResponse is the active cart plus every derived figure the register
// screen shows.
type CartResponse struct {
	Lines          []domain.CartLine `json:"lines"`
	DiscountType   string            `json:"discountType"`
	DiscountValue  float64           `json:"discountValue"`
	TaxPercent     float64           `json:"taxPercent"`
	PaymentMethod  string            `json:"paymentMethod"`
	CashGiven      *float64          `json:"cashGiven"`
	Subtotal       float64           `json:"subtotal"`
	DiscountAmount float64           `json:"discountAmount"`
	TaxAmount      float64           `json:"taxAmount"`
	Total          float64           `json:"total"`
	CanCheckout    bool              `json:"canCheckout"`
	ChangeDue      float64           `json:"changeDue"`
}

func cartResponse(cart domain.Cart) CartResponse {
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponse{
		Lines:          lines,
		DiscountType:   string(cart.DiscountType),
		DiscountValue:  cart.DiscountValue,
		TaxPercent:     cart.TaxPercent,
		PaymentMethod:  string(cart.PaymentMethod),
		CashGiven:      cart.CashGiven,
		Subtotal:       cart.Subtotal(),
		DiscountAmount: cart.DiscountAmount(),
		TaxAmount:      cart.TaxAmount(),
		Total:          cart.Total(),
		CanCheckout:    cart.CanCheckout(),
		ChangeDue:      cart.ChangeDue(),
	}
}

type CheckoutResponse struct {
	TraceID   string      `json:"traceId"`
	Sale      domain.Sale `json:"sale"`
	Timestamp time.Time   `json:"timestamp"`
}
