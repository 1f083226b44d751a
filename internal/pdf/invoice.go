// Package pdf renders invoices as single-page PDF documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/kadiapp/kadi/internal/domain"
)

// Fixed layout offsets, in points. The table columns sit at constant x
// positions and each line-item row advances by 25 points.
const (
	marginX       = 50.0
	colDescX      = 50.0
	colQtyX       = 300.0
	colUnitX      = 370.0
	colTotalX     = 470.0
	rowHeight     = 25.0
	lineHeight    = 14.0
	pageWidth     = 595.0 // A4 portrait
	contentWidth  = pageWidth - 2*marginX
	tableRulePad  = 6.0
	brandTitle    = "Kadi"
	dateFormat    = "02/01/2006"
)

// InvoiceRenderer draws invoices into PDF bytes. It is stateless and
// safe for concurrent use.
type InvoiceRenderer struct{}

// NewInvoiceRenderer creates a renderer.
func NewInvoiceRenderer() *InvoiceRenderer {
	return &InvoiceRenderer{}
}

// Render produces a single-page document: brand header, invoice number,
// client block, line-item table, right-aligned total and optional
// notes. Invoices with enough items to overflow the page are not
// paginated; extra rows run off the bottom. Known limitation.
func (r *InvoiceRenderer) Render(invoice *domain.Invoice, issuer *domain.Profile) ([]byte, error) {
	const op = "pdf.render"

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: 595, Ht: 842},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	// Header: brand title left, issue date right.
	doc.SetFont("Helvetica", "B", 20)
	doc.Text(marginX, 60, tr(brandTitle))
	doc.SetFont("Helvetica", "", 10)
	dateLabel := tr("Date: " + invoice.IssueDate.Format(dateFormat))
	doc.Text(pageWidth-marginX-doc.GetStringWidth(dateLabel), 60, dateLabel)

	if issuer != nil {
		r.issuerBlock(doc, tr, issuer)
	}

	// Invoice number heading.
	doc.SetFont("Helvetica", "B", 14)
	doc.Text(marginX, 130, tr("Facture "+invoice.InvoiceNumber))

	y := r.clientBlock(doc, tr, invoice.Client)

	y = r.itemTable(doc, tr, invoice, y+20)

	// Right-aligned total line.
	doc.SetFont("Helvetica", "B", 12)
	totalLabel := tr(fmt.Sprintf("Total: %.2f %s", invoice.Total, invoice.Currency))
	doc.Text(pageWidth-marginX-doc.GetStringWidth(totalLabel), y+30, totalLabel)

	if invoice.Notes != "" {
		doc.SetFont("Helvetica", "B", 10)
		doc.Text(marginX, y+70, tr("Notes"))
		doc.SetFont("Helvetica", "", 10)
		doc.SetXY(marginX, y+78)
		doc.MultiCell(contentWidth, lineHeight, tr(invoice.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, domain.Internal(err, op, "")
	}
	return buf.Bytes(), nil
}

// issuerBlock prints the seller's company metadata under the brand
// title, skipping absent lines.
func (r *InvoiceRenderer) issuerBlock(doc *fpdf.Fpdf, tr func(string) string, issuer *domain.Profile) {
	doc.SetFont("Helvetica", "", 9)
	y := 75.0
	for _, line := range []string{
		issuer.CompanyName,
		issuer.Tagline,
		issuer.AddressLine,
		joinNonEmpty(issuer.PostalCode, issuer.City),
		formatIfSet("SIRET: %s", issuer.Siret),
		formatIfSet("TVA: %s", issuer.VATNumber),
	} {
		if line == "" {
			continue
		}
		doc.Text(marginX, y, tr(line))
		y += 11
	}
}

// clientBlock prints the billed client's details, one line per present
// field, and returns the y position after the block.
func (r *InvoiceRenderer) clientBlock(doc *fpdf.Fpdf, tr func(string) string, client *domain.Client) float64 {
	y := 160.0

	doc.SetFont("Helvetica", "B", 10)
	doc.Text(marginX, y, tr("Facturé à"))
	y += lineHeight

	doc.SetFont("Helvetica", "", 10)
	if client == nil {
		return y
	}
	for _, line := range []string{
		client.CompanyName,
		client.ContactName,
		client.Email,
		client.Phone,
		client.Address,
	} {
		if line == "" {
			continue
		}
		doc.Text(marginX, y, tr(line))
		y += lineHeight
	}
	return y
}

// itemTable draws the four-column line-item table at fixed horizontal
// offsets, rows advancing by 25 points, and returns the y position of
// the last row.
func (r *InvoiceRenderer) itemTable(doc *fpdf.Fpdf, tr func(string) string, invoice *domain.Invoice, y float64) float64 {
	doc.SetFont("Helvetica", "B", 10)
	doc.Text(colDescX, y, tr("Description"))
	doc.Text(colQtyX, y, tr("Quantité"))
	doc.Text(colUnitX, y, tr("Prix unitaire"))
	doc.Text(colTotalX, y, tr("Total"))
	doc.Line(marginX, y+tableRulePad, pageWidth-marginX, y+tableRulePad)

	doc.SetFont("Helvetica", "", 10)
	for i, item := range invoice.Items {
		rowY := y + rowHeight*float64(i+1)
		doc.Text(colDescX, rowY, tr(item.Description))
		doc.Text(colQtyX, rowY, tr(fmt.Sprintf("%g", item.Quantity)))
		doc.Text(colUnitX, rowY, tr(fmt.Sprintf("%.2f", item.UnitPrice)))
		doc.Text(colTotalX, rowY, tr(fmt.Sprintf("%.2f", item.Quantity*item.UnitPrice)))
	}

	return y + rowHeight*float64(len(invoice.Items))
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func formatIfSet(format, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf(format, value)
}
