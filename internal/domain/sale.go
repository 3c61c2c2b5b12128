package domain

import "time"

// SaleItem is a cart line frozen into a sale, with its extended total.
type SaleItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"qty"`
	LineTotal float64 `json:"lineTotal"`
}

// Sale is a finalized, persisted transaction. Every field is immutable
// after creation except Refunded/RefundedAt, which transition exactly once.
// Items reference products by ID as a snapshot; editing or deleting the
// product later does not touch historical sales.
type Sale struct {
	ID             string        `json:"id"`
	CreatedAt      time.Time     `json:"createdAt"`
	Items          []SaleItem    `json:"items"`
	Subtotal       float64       `json:"subtotal"`
	DiscountType   DiscountType  `json:"discountType"`
	DiscountValue  float64       `json:"discountValue"`
	DiscountAmount float64       `json:"discountAmount"`
	TaxPercent     float64       `json:"taxPercent"`
	TaxAmount      float64       `json:"taxAmount"`
	Total          float64       `json:"total"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	CashGiven      *float64      `json:"cashGiven"`
	Change         *float64      `json:"change"`
	Refunded       bool          `json:"refunded"`
	RefundedAt     *time.Time    `json:"refundedAt,omitempty"`
}

// SnapshotSale freezes the cart's lines and derived totals into a Sale.
// CashGiven and Change are only recorded for Cash payments.
func SnapshotSale(id string, createdAt time.Time, c *Cart) Sale {
	items := make([]SaleItem, len(c.Lines))
	for i, line := range c.Lines {
		items[i] = SaleItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			LineTotal: line.Price * float64(line.Quantity),
		}
	}

	sale := Sale{
		ID:             id,
		CreatedAt:      createdAt,
		Items:          items,
		Subtotal:       c.Subtotal(),
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		DiscountAmount: c.DiscountAmount(),
		TaxPercent:     c.TaxPercent,
		TaxAmount:      c.TaxAmount(),
		Total:          c.Total(),
		PaymentMethod:  c.PaymentMethod,
	}

	if c.PaymentMethod == PaymentCash {
		cash := c.cash()
		change := c.ChangeDue()
		sale.CashGiven = &cash
		sale.Change = &change
	}

	return sale
}
