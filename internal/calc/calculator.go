// Package calc turns raw line items and rates into invoice totals.
package calc

import (
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/invoice-composer/internal/decimal"
	"github.com/rezonia/invoice-composer/internal/model"
)

// Line is an accepted row of the items table
type Line struct {
	Index       int             `json:"index"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Totals holds the computed values of an invoice. Nothing here is persisted.
type Totals struct {
	Currency       string          `json:"currency"`
	Lines          []Line          `json:"lines"`
	Skipped        int             `json:"skipped"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Tax            decimal.Decimal `json:"tax"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// Compute calculates totals. Malformed numbers resolve to zero and items with
// a negative quantity or price are left out of the subtotal entirely.
func Compute(items []model.LineItem, taxRatePercent, discountRatePercent, currencySymbol string) Totals {
	if currencySymbol == "" {
		currencySymbol = model.DefaultCurrency
	}

	t := Totals{
		Currency:     currencySymbol,
		Lines:        make([]Line, 0, len(items)),
		TaxRate:      dec.Parse(taxRatePercent),
		DiscountRate: dec.Parse(discountRatePercent),
	}

	amounts := make([]decimal.Decimal, 0, len(items))
	for i, item := range items {
		qty := dec.Parse(item.Quantity)
		price := dec.Parse(item.UnitPrice)
		if dec.IsNegative(qty) || dec.IsNegative(price) {
			t.Skipped++
			continue
		}

		amount := qty.Mul(price)
		amounts = append(amounts, amount)
		t.Lines = append(t.Lines, Line{
			Index:       i,
			Description: item.Description,
			Quantity:    qty,
			UnitPrice:   price,
			Amount:      amount,
		})
	}

	t.Subtotal = dec.Sum(amounts)
	t.Tax = dec.Percent(t.Subtotal, t.TaxRate)
	t.DiscountAmount = dec.Percent(t.Subtotal.Add(t.Tax), t.DiscountRate)
	t.GrandTotal = t.Subtotal.Add(t.Tax).Sub(t.DiscountAmount)
	return t
}

// ComputeSnapshot calculates totals for a whole snapshot
func ComputeSnapshot(s model.Snapshot) Totals {
	return Compute(s.Items, s.TaxRate, s.Discount, s.Currency)
}

// Money formats an amount with the totals' currency symbol
func (t Totals) Money(d decimal.Decimal) string {
	return dec.Money(t.Currency, d)
}

// TaxLabel is the whole-percent label of the tax rate
func (t Totals) TaxLabel() string {
	return dec.PercentLabel(t.TaxRate)
}

// DiscountLabel is the whole-percent label of the discount rate
func (t Totals) DiscountLabel() string {
	return dec.PercentLabel(t.DiscountRate)
}

// Summary is the display form of Totals
type Summary struct {
	Subtotal      string `json:"subtotal"`
	TaxLabel      string `json:"tax_label"`
	Tax           string `json:"tax"`
	DiscountLabel string `json:"discount_label"`
	Discount      string `json:"discount"`
	GrandTotal    string `json:"grand_total"`
}

// Summary formats every amount for display
func (t Totals) Summary() Summary {
	return Summary{
		Subtotal:      t.Money(t.Subtotal),
		TaxLabel:      t.TaxLabel(),
		Tax:           t.Money(t.Tax),
		DiscountLabel: t.DiscountLabel(),
		Discount:      "-" + t.Money(t.DiscountAmount),
		GrandTotal:    t.Money(t.GrandTotal),
	}
}
