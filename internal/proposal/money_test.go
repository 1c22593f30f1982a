package proposal

import (
	"testing"

	"github.com/saramagdits/landscaping-saas/internal/store"
)

func TestItemTotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  float64
		unitPrice float64
		want      float64
	}{
		{"whole numbers", 3, 200, 600.00},
		{"fractional quantity", 2.5, 80, 200.00},
		{"sub-cent product rounds", 3, 0.333, 1.00},
		{"rounds half up", 1, 10.005, 10.01},
		{"zero quantity", 0, 99.99, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ItemTotal(tt.quantity, tt.unitPrice); got != tt.want {
				t.Errorf("ItemTotal(%v, %v) = %v, want %v", tt.quantity, tt.unitPrice, got, tt.want)
			}
		})
	}
}

func TestSectionSubtotal(t *testing.T) {
	// Sums the cached line totals as stored, without recomputing them.
	items := []store.ProposalItem{
		{TotalPrice: 1250},
		{TotalPrice: 150},
		{TotalPrice: 800},
	}
	if got := SectionSubtotal(items); got != 2200.00 {
		t.Errorf("SectionSubtotal = %v, want 2200.00", got)
	}

	items = []store.ProposalItem{
		{TotalPrice: 600.00},
		{TotalPrice: 150.555},
	}
	if got := SectionSubtotal(items); got != 750.56 {
		t.Errorf("SectionSubtotal = %v, want 750.56", got)
	}

	if got := SectionSubtotal(nil); got != 0 {
		t.Errorf("SectionSubtotal(nil) = %v, want 0", got)
	}
}

func TestCalculateTotals(t *testing.T) {
	// Totals derive from the cached section subtotals only.
	sections := []store.ProposalSection{
		{Subtotal: 1250},
		{Subtotal: 150},
		{Subtotal: 800},
	}

	got := CalculateTotals(sections, 8.5)
	want := Totals{Subtotal: 2200.00, TaxAmount: 187.00, TotalAmount: 2387.00}
	if got != want {
		t.Errorf("CalculateTotals = %+v, want %+v", got, want)
	}
}

func TestCalculateTotalsAfterNormalize(t *testing.T) {
	// The full pipeline: item totals and section subtotals are refreshed from
	// quantity and unit price, then totals come from the refreshed caches.
	sections := []store.ProposalSection{
		{Items: []store.ProposalItem{{Quantity: 1, UnitPrice: 1250}}},
		{Items: []store.ProposalItem{{Quantity: 1, UnitPrice: 150}}},
		{Items: []store.ProposalItem{{Quantity: 1, UnitPrice: 800}}},
	}

	NormalizeSections(sections)
	got := CalculateTotals(sections, 8.5)
	want := Totals{Subtotal: 2200.00, TaxAmount: 187.00, TotalAmount: 2387.00}
	if got != want {
		t.Errorf("CalculateTotals = %+v, want %+v", got, want)
	}
}

func TestCalculateTotalsZeroRate(t *testing.T) {
	sections := []store.ProposalSection{{Subtotal: 99.98}}

	got := CalculateTotals(sections, 0)
	if got.Subtotal != 99.98 || got.TaxAmount != 0 || got.TotalAmount != 99.98 {
		t.Errorf("CalculateTotals = %+v", got)
	}
}

func TestCalculateTotalsEmpty(t *testing.T) {
	got := CalculateTotals(nil, 8.5)
	if got != (Totals{}) {
		t.Errorf("CalculateTotals(nil) = %+v, want zeros", got)
	}
}

func TestNormalizeSections(t *testing.T) {
	sections := []store.ProposalSection{
		{
			Items: []store.ProposalItem{
				{Quantity: 3, UnitPrice: 200, TotalPrice: 1}, // stale cache
				{Quantity: 2, UnitPrice: 75.25},
			},
			Subtotal: 999, // stale cache
		},
	}

	NormalizeSections(sections)

	if got := sections[0].Items[0].TotalPrice; got != 600.00 {
		t.Errorf("item 0 total = %v, want 600.00", got)
	}
	if got := sections[0].Items[1].TotalPrice; got != 150.50 {
		t.Errorf("item 1 total = %v, want 150.50", got)
	}
	if got := sections[0].Subtotal; got != 750.50 {
		t.Errorf("section subtotal = %v, want 750.50", got)
	}
}
