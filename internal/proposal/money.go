package proposal

import (
	"github.com/shopspring/decimal"

	"github.com/saramagdits/landscaping-saas/internal/store"
)

// Money math rounds to cents at every step: each line item total, each
// section subtotal, the proposal subtotal, the tax amount, and the grand
// total are all rounded independently. Chained calculations therefore
// operate on already-rounded inputs, matching what the client sees printed.

// Totals is the derived money summary of a proposal.
type Totals struct {
	Subtotal    float64
	TaxAmount   float64
	TotalAmount float64
}

// ItemTotal computes round(quantity * unitPrice, 2).
func ItemTotal(quantity, unitPrice float64) float64 {
	q := decimal.NewFromFloat(quantity)
	p := decimal.NewFromFloat(unitPrice)
	return round2(q.Mul(p))
}

// SectionSubtotal sums the cached item totals of a section and rounds the
// sum. Run NormalizeSections first when the caches may be stale.
func SectionSubtotal(items []store.ProposalItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.TotalPrice))
	}
	return round2(sum)
}

// CalculateTotals derives subtotal, tax, and total from the cached section
// subtotals and a percentage tax rate (8.5 means 8.5%).
func CalculateTotals(sections []store.ProposalSection, taxRate float64) Totals {
	subtotalDec := decimal.Zero
	for _, section := range sections {
		subtotalDec = subtotalDec.Add(decimal.NewFromFloat(section.Subtotal))
	}
	subtotal := round2(subtotalDec)

	rate := decimal.NewFromFloat(taxRate).Div(decimal.NewFromInt(100))
	tax := round2(decimal.NewFromFloat(subtotal).Mul(rate))

	total := round2(decimal.NewFromFloat(subtotal).Add(decimal.NewFromFloat(tax)))

	return Totals{Subtotal: subtotal, TaxAmount: tax, TotalAmount: total}
}

// NormalizeSections recomputes every cached money field in place: item
// totals first, then section subtotals from them.
func NormalizeSections(sections []store.ProposalSection) {
	for i := range sections {
		for j := range sections[i].Items {
			item := &sections[i].Items[j]
			item.TotalPrice = ItemTotal(item.Quantity, item.UnitPrice)
		}
		sections[i].Subtotal = SectionSubtotal(sections[i].Items)
	}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
