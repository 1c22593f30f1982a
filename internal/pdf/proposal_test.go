package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/saramagdits/landscaping-saas/internal/store"
)

func sampleProposal() *store.Proposal {
	return &store.Proposal{
		ID:          "p1",
		UserID:      "u1",
		Title:       "Backyard renovation",
		ClientName:  "Pat Jones",
		ClientEmail: "pat@example.com",
		Status:      store.ProposalStatusSent,
		TaxRate:     8.5,
		Subtotal:    2200,
		TaxAmount:   187,
		TotalAmount: 2387,
		ValidUntil:  time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		Sections: []store.ProposalSection{
			{
				Title:    "Landscaping",
				Subtotal: 2200,
				Items: []store.ProposalItem{
					{Name: "Sod installation", Quantity: 1, Unit: "job", UnitPrice: 2200, TotalPrice: 2200, Category: store.ItemCategoryLabor},
				},
			},
		},
	}
}

func TestRenderProposalProducesPDF(t *testing.T) {
	data, err := RenderProposal(sampleProposal(), &store.CompanyInfo{Name: "GreenScape LLC"})
	if err != nil {
		t.Fatalf("RenderProposal: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header")
	}
	if len(data) < 1000 {
		t.Errorf("output suspiciously small: %d bytes", len(data))
	}
}

func TestRenderProposalWithBlankCompany(t *testing.T) {
	data, err := RenderProposal(sampleProposal(), &store.CompanyInfo{})
	if err != nil {
		t.Fatalf("RenderProposal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
}

func TestRenderProposalManySectionsPaginates(t *testing.T) {
	p := sampleProposal()
	p.Sections = nil
	for i := 0; i < 30; i++ {
		p.Sections = append(p.Sections, store.ProposalSection{
			Title: "Section",
			Items: []store.ProposalItem{
				{Name: "Line item", Quantity: 1, Unit: "ea", UnitPrice: 10, TotalPrice: 10},
				{Name: "Line item", Quantity: 1, Unit: "ea", UnitPrice: 10, TotalPrice: 10},
				{Name: "Line item", Quantity: 1, Unit: "ea", UnitPrice: 10, TotalPrice: 10},
			},
		})
	}

	data, err := RenderProposal(p, &store.CompanyInfo{})
	if err != nil {
		t.Fatalf("RenderProposal: %v", err)
	}
	// A multi-page document carries more than one /Page object.
	if strings.Count(string(data), "/Type /Page") < 3 {
		t.Errorf("expected multiple pages in output")
	}
}

func TestMoneyAndFloatFormatting(t *testing.T) {
	if got := money(2387.0); got != "$2387.00" {
		t.Errorf("money = %q", got)
	}
	if got := trimFloat(8.5); got != "8.5" {
		t.Errorf("trimFloat(8.5) = %q", got)
	}
	if got := trimFloat(3); got != "3" {
		t.Errorf("trimFloat(3) = %q", got)
	}
}
