// Package pdf renders proposals into printable documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/saramagdits/landscaping-saas/internal/company"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

// column widths of the line-item table, in mm
var itemColumns = []struct {
	header string
	width  float64
}{
	{"Item", 40},
	{"Description", 50},
	{"Qty", 15},
	{"Unit", 20},
	{"Unit Price", 25},
	{"Total", 25},
}

// pageBreakY is the cursor height past which a new page starts before the
// next block.
const pageBreakY = 250.0

// RenderProposal produces the client-facing PDF for a proposal. The company
// profile fills the header; a blank profile falls back to a generic name.
func RenderProposal(p *store.Proposal, info *store.CompanyInfo) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Proposal - %s", p.Title), true)
	doc.AddPage()

	writeHeader(doc, info)
	writeStatus(doc, p.Status)
	writeTitle(doc, p)
	writeParties(doc, p)
	writeSections(doc, p)
	writeTotals(doc, p)
	writeClosing(doc, p)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render proposal pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(doc *fpdf.Fpdf, info *store.CompanyInfo) {
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, company.DisplayName(info), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(90, 90, 90)
	if addr := company.FormattedAddress(info); addr != "" {
		doc.CellFormat(0, 5, addr, "", 1, "L", false, 0, "")
	}
	var contact string
	if info != nil {
		switch {
		case info.Phone != "" && info.Email != "":
			contact = info.Phone + "  |  " + info.Email
		case info.Phone != "":
			contact = info.Phone
		case info.Email != "":
			contact = info.Email
		}
		if info.Website != "" {
			if contact != "" {
				contact += "  |  "
			}
			contact += info.Website
		}
	}
	if contact != "" {
		doc.CellFormat(0, 5, contact, "", 1, "L", false, 0, "")
	}
	doc.SetTextColor(0, 0, 0)
	doc.Ln(4)
}

var statusColors = map[store.ProposalStatus][3]int{
	store.ProposalStatusDraft:    {0x80, 0x80, 0x80},
	store.ProposalStatusSent:     {0x3b, 0x82, 0xf6},
	store.ProposalStatusAccepted: {0x22, 0xc5, 0x5e},
	store.ProposalStatusRejected: {0xef, 0x44, 0x44},
	store.ProposalStatusExpired:  {0xf5, 0x9e, 0x0b},
}

func writeStatus(doc *fpdf.Fpdf, status store.ProposalStatus) {
	rgb, ok := statusColors[status]
	if !ok {
		rgb = statusColors[store.ProposalStatusDraft]
	}
	doc.SetFont("Helvetica", "B", 10)
	doc.SetTextColor(rgb[0], rgb[1], rgb[2])
	doc.CellFormat(0, 6, fmt.Sprintf("Status: %s", status), "", 1, "R", false, 0, "")
	doc.SetTextColor(0, 0, 0)
}

func writeTitle(doc *fpdf.Fpdf, p *store.Proposal) {
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, p.Title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(90, 90, 90)
	doc.CellFormat(0, 5, fmt.Sprintf("Valid until %s", p.ValidUntil.Format("January 2, 2006")), "", 1, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	doc.Ln(3)
}

func writeParties(doc *fpdf.Fpdf, p *store.Proposal) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 6, "Prepared for", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, p.ClientName, "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, p.ClientEmail, "", 1, "L", false, 0, "")
	if p.ClientPhone != "" {
		doc.CellFormat(0, 5, p.ClientPhone, "", 1, "L", false, 0, "")
	}
	if p.ClientAddress != "" {
		doc.CellFormat(0, 5, p.ClientAddress, "", 1, "L", false, 0, "")
	}
	doc.Ln(3)

	if p.ProjectAddress != "" || p.ProjectDescription != "" {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(0, 6, "Project", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		if p.ProjectAddress != "" {
			doc.CellFormat(0, 5, p.ProjectAddress, "", 1, "L", false, 0, "")
		}
		if p.ProjectDescription != "" {
			doc.MultiCell(0, 5, p.ProjectDescription, "", "L", false)
		}
		if !p.EstimatedStartDate.IsZero() {
			doc.CellFormat(0, 5, fmt.Sprintf("Estimated start: %s", p.EstimatedStartDate.Format("January 2, 2006")), "", 1, "L", false, 0, "")
		}
		if p.EstimatedDuration > 0 {
			doc.CellFormat(0, 5, fmt.Sprintf("Estimated duration: %d days", p.EstimatedDuration), "", 1, "L", false, 0, "")
		}
		doc.Ln(3)
	}
}

func writeSections(doc *fpdf.Fpdf, p *store.Proposal) {
	for _, section := range p.Sections {
		breakIfNeeded(doc)

		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(0, 7, section.Title, "", 1, "L", false, 0, "")
		if section.Description != "" {
			doc.SetFont("Helvetica", "", 9)
			doc.SetTextColor(90, 90, 90)
			doc.MultiCell(0, 4.5, section.Description, "", "L", false)
			doc.SetTextColor(0, 0, 0)
		}

		writeItemTableHeader(doc)
		doc.SetFont("Helvetica", "", 9)
		for _, item := range section.Items {
			breakIfNeeded(doc)
			cells := []string{
				item.Name,
				item.Description,
				trimFloat(item.Quantity),
				item.Unit,
				money(item.UnitPrice),
				money(item.TotalPrice),
			}
			for i, col := range itemColumns {
				align := "L"
				if i >= 2 {
					align = "R"
				}
				doc.CellFormat(col.width, 6, cells[i], "B", 0, align, false, 0, "")
			}
			doc.Ln(-1)
		}

		doc.SetFont("Helvetica", "B", 9)
		doc.CellFormat(150, 6, "Section subtotal", "", 0, "R", false, 0, "")
		doc.CellFormat(25, 6, money(section.Subtotal), "", 1, "R", false, 0, "")
		doc.Ln(3)
	}
}

func writeItemTableHeader(doc *fpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(240, 240, 240)
	for i, col := range itemColumns {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		doc.CellFormat(col.width, 6, col.header, "B", 0, align, true, 0, "")
	}
	doc.Ln(-1)
}

func writeTotals(doc *fpdf.Fpdf, p *store.Proposal) {
	breakIfNeeded(doc)

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(150, 6, "Subtotal", "", 0, "R", false, 0, "")
	doc.CellFormat(25, 6, money(p.Subtotal), "", 1, "R", false, 0, "")
	doc.CellFormat(150, 6, fmt.Sprintf("Tax (%s%%)", trimFloat(p.TaxRate)), "", 0, "R", false, 0, "")
	doc.CellFormat(25, 6, money(p.TaxAmount), "", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(150, 8, "Total", "T", 0, "R", false, 0, "")
	doc.CellFormat(25, 8, money(p.TotalAmount), "T", 1, "R", false, 0, "")
	doc.Ln(4)
}

func writeClosing(doc *fpdf.Fpdf, p *store.Proposal) {
	if p.Terms != "" {
		breakIfNeeded(doc)
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(0, 6, "Terms", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 9)
		doc.MultiCell(0, 4.5, p.Terms, "", "L", false)
		doc.Ln(2)
	}
	if p.Notes != "" {
		breakIfNeeded(doc)
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(0, 6, "Notes", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 9)
		doc.MultiCell(0, 4.5, p.Notes, "", "L", false)
	}
}

func breakIfNeeded(doc *fpdf.Fpdf) {
	if doc.GetY() > pageBreakY {
		doc.AddPage()
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// trimFloat renders whole numbers without a decimal point.
func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
