package pos

import (
	"fmt"
	"strings"
	"text/template"

	"radagast/internal/domain"
)

// The receipt layout is presentation only, but every figure on it must
// come verbatim from the sale record: discount and tax lines appear only
// when greater than zero, cash and change only for cash payments.
const receiptTemplate = `{{.Header}}
{{.Sale.CreatedAt.Format "2006-01-02 15:04:05"}}
Receipt: {{.Sale.ID}}
--------------------------------
{{range .Sale.Items}}{{.Name}} x{{.Quantity}}{{pad .Name .Quantity}}{{money .LineTotal}}
{{end}}--------------------------------
Subtotal{{padlabel "Subtotal"}}{{money .Sale.Subtotal}}
{{if gt .Sale.DiscountAmount 0.0}}Discount{{padlabel "Discount"}}-{{money .Sale.DiscountAmount}}
{{end}}{{if gt .Sale.TaxAmount 0.0}}Tax{{padlabel "Tax"}}{{money .Sale.TaxAmount}}
{{end}}TOTAL{{padlabel "TOTAL"}}{{money .Sale.Total}}
Payment{{padlabel "Payment"}}{{.Sale.PaymentMethod}}
{{if .Sale.CashGiven}}Cash{{padlabel "Cash"}}{{money (deref .Sale.CashGiven)}}
{{end}}{{if .Sale.Change}}Change{{padlabel "Change"}}{{money (deref .Sale.Change)}}
{{end}}{{if .Sale.Refunded}}*** REFUNDED ***
{{end}}Thank you!
`

const receiptWidth = 32

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(v float64) string {
		return fmt.Sprintf("PHP %.2f", v)
	},
	"deref": func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	},
	"pad": func(name string, qty int) string {
		used := len(name) + len(fmt.Sprintf(" x%d", qty))
		return pad(used)
	},
	"padlabel": func(label string) string {
		return pad(len(label))
	},
}).Parse(receiptTemplate))

func pad(used int) string {
	n := receiptWidth - used - 12
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n)
}

type receiptData struct {
	Header string
	Sale   domain.Sale
}

// RenderReceipt produces the plain-text receipt for a sale.
func RenderReceipt(header string, sale domain.Sale) (string, error) {
	var b strings.Builder
	if err := receiptTmpl.Execute(&b, receiptData{Header: header, Sale: sale}); err != nil {
		return "", fmt.Errorf("rendering receipt: %w", err)
	}
	return b.String(), nil
}
