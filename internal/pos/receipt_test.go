package pos

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radagast/internal/domain"
)

func saleFixture() domain.Sale {
	return domain.Sale{
		ID:        "SALE-1700000000000",
		CreatedAt: time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
		Items: []domain.SaleItem{
			{ProductID: 1, Name: "Margherita Pizza", Price: 350, Quantity: 2},
			{ProductID: 2, Name: "Basil Bread", Price: 90, Quantity: 1},
		},
		Subtotal:       790,
		DiscountAmount: 79,
		TaxAmount:      35.55,
		Total:          746.55,
		PaymentMethod:  domain.PaymentCash,
		CashGiven:      float64Ptr(800),
		Change:         float64Ptr(53.45),
	}
}

func TestRenderReceipt_CashSale(t *testing.T) {
	out, err := RenderReceipt("Tony's Pizza", saleFixture())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Tony's Pizza\n"))
	assert.Contains(t, out, "2025-06-01 14:30:00")
	assert.Contains(t, out, "Receipt: SALE-1700000000000")
	assert.Contains(t, out, "Margherita Pizza x2")
	assert.Contains(t, out, "PHP 700.00")
	assert.Contains(t, out, "Basil Bread x1")
	assert.Contains(t, out, "PHP 90.00")
	assert.Contains(t, out, "PHP 790.00")
	assert.Contains(t, out, "-PHP 79.00")
	assert.Contains(t, out, "PHP 35.55")
	assert.Contains(t, out, "PHP 746.55")
	assert.Contains(t, out, "Cash")
	assert.Contains(t, out, "PHP 800.00")
	assert.Contains(t, out, "PHP 53.45")
	assert.NotContains(t, out, "REFUNDED")
}

func TestRenderReceipt_CardSaleOmitsCashLines(t *testing.T) {
	sale := saleFixture()
	sale.PaymentMethod = domain.PaymentCard
	sale.CashGiven = nil
	sale.Change = nil

	out, err := RenderReceipt("Tony's Pizza", sale)
	require.NoError(t, err)

	assert.NotContains(t, out, "Cash ")
	assert.NotContains(t, out, "Change")
	assert.Contains(t, out, "Card")
}

func TestRenderReceipt_OmitsZeroDiscountAndTax(t *testing.T) {
	sale := saleFixture()
	sale.DiscountAmount = 0
	sale.TaxAmount = 0
	sale.Total = sale.Subtotal

	out, err := RenderReceipt("Tony's Pizza", sale)
	require.NoError(t, err)

	assert.NotContains(t, out, "Discount")
	assert.NotContains(t, out, "Tax")
}

func TestRenderReceipt_RefundedBanner(t *testing.T) {
	sale := saleFixture()
	sale.Refunded = true

	out, err := RenderReceipt("Tony's Pizza", sale)
	require.NoError(t, err)

	assert.Contains(t, out, "*** REFUNDED ***")
}
