package infra

// pdf.go: documents rendered with go-pdf/fpdf:
//   - single product details report
//   - landscape product list with a status-coloured table
//   - sale receipt
// Every renderer returns the finished document as bytes.

import (
	"bytes"
	"fmt"
	"time"

	"stockroom/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// DisplayTimeLayout is used for every timestamp printed in exports.
const DisplayTimeLayout = "2006-01-02 15:04"

type pdfDoc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFDoc(orientation, title string) *pdfDoc {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(title, true)
	pdf.AddPage()
	return &pdfDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *pdfDoc) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return w - left - right
}

func (d *pdfDoc) header(businessName, title string) {
	w := d.contentWidth()
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.CellFormat(w, 9, d.tr(businessName), "", 1, "C", false, 0, "")
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.CellFormat(w, 8, d.tr(title), "", 1, "C", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.CellFormat(w, 5, "Generated: "+time.Now().Format(DisplayTimeLayout), "", 1, "C", false, 0, "")
	d.pdf.Ln(4)
}

// row prints a two-column label/value line.
func (d *pdfDoc) row(label, value string) {
	w := d.contentWidth()
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetFillColor(240, 240, 240)
	d.pdf.CellFormat(w*0.35, 8, d.tr(label), "1", 0, "L", true, 0, "")
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(w*0.65, 8, d.tr(value), "1", 1, "L", false, 0, "")
}

func (d *pdfDoc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

func money(v decimal.Decimal) string { return "$" + v.StringFixed(2) }

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// ProductPDF renders the "Product Details Report" for a single product.
func ProductPDF(businessName string, p *model.Product) ([]byte, error) {
	d := newPDFDoc("P", "Product Details Report")
	d.header(businessName, "Product Details Report")

	d.row("Product Name", p.Name)
	d.row("SKU", p.SKU)
	d.row("Category", model.DisplayCategory(p.Category))
	d.row("Price", money(p.Price))
	d.row("Quantity", fmt.Sprintf("%d", p.Quantity))
	d.row("Reorder Level", fmt.Sprintf("%d", p.EffectiveReorderLevel()))
	d.row("Stock Status", p.StockStatus().Label())
	d.row("Inventory Value", money(p.InventoryValue()))
	if p.Supplier != nil {
		d.row("Supplier", p.Supplier.Name)
	}
	d.row("Created", p.CreatedAt.Format(DisplayTimeLayout))
	d.row("Last Updated", p.UpdatedAt.Format(DisplayTimeLayout))

	if p.Description != nil && *p.Description != "" {
		d.pdf.Ln(4)
		d.pdf.SetFont("Helvetica", "B", 10)
		d.pdf.CellFormat(d.contentWidth(), 7, "Description", "", 1, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 10)
		d.pdf.MultiCell(d.contentWidth(), 5, d.tr(*p.Description), "", "L", false)
	}
	return d.bytes()
}

// ProductListPDF renders every product in a landscape table with a summary line.
func ProductListPDF(businessName string, products []model.Product) ([]byte, error) {
	d := newPDFDoc("L", "Products Report")
	d.header(businessName, "Products Report")

	total := decimal.Zero
	low, out := 0, 0
	for i := range products {
		total = total.Add(products[i].InventoryValue())
		switch products[i].StockStatus() {
		case model.StockLow:
			low++
		case model.StockOut:
			out++
		}
	}
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(d.contentWidth(), 6,
		fmt.Sprintf("Total Products: %d   Low Stock: %d   Out of Stock: %d   Inventory Value: %s",
			len(products), low, out, money(total)),
		"", 1, "L", false, 0, "")
	d.pdf.Ln(2)

	w := d.contentWidth()
	cols := []struct {
		title string
		width float64
		align string
	}{
		{"SKU", w * 0.13, "L"},
		{"Product Name", w * 0.30, "L"},
		{"Category", w * 0.15, "L"},
		{"Price", w * 0.10, "R"},
		{"Quantity", w * 0.08, "R"},
		{"Status", w * 0.12, "C"},
		{"Value", w * 0.12, "R"},
	}

	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetFillColor(52, 73, 94)
	d.pdf.SetTextColor(255, 255, 255)
	for _, c := range cols {
		d.pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetTextColor(0, 0, 0)

	d.pdf.SetFont("Helvetica", "", 9)
	for i := range products {
		p := &products[i]
		status := p.StockStatus()
		values := []string{
			p.SKU, p.Name, model.DisplayCategory(p.Category), money(p.Price),
			fmt.Sprintf("%d", p.Quantity), status.Label(), money(p.InventoryValue()),
		}
		for j, c := range cols {
			if j == 5 {
				r, g, b := statusColor(status)
				d.pdf.SetTextColor(r, g, b)
			}
			d.pdf.CellFormat(c.width, 6, d.tr(values[j]), "1", 0, c.align, false, 0, "")
			d.pdf.SetTextColor(0, 0, 0)
		}
		d.pdf.Ln(-1)
	}
	return d.bytes()
}

func statusColor(s model.StockStatus) (int, int, int) {
	switch s {
	case model.StockOut:
		return 192, 57, 43
	case model.StockLow:
		return 211, 84, 0
	default:
		return 39, 174, 96
	}
}

// SaleReceiptPDF renders a receipt for one sale.
func SaleReceiptPDF(businessName string, s *model.Sale) ([]byte, error) {
	d := newPDFDoc("P", "Sales Receipt")
	d.header(businessName, "Sales Receipt")

	d.row("Receipt #", s.ID.String())
	d.row("Sale Date", s.SaleDate.Format(DisplayTimeLayout))
	d.row("Customer", orDash(s.CustomerName))
	d.row("Customer Email", orDash(s.CustomerEmail))
	d.row("Payment Method", orDash(s.PaymentMethod))
	d.pdf.Ln(6)

	w := d.contentWidth()
	widths := []float64{w * 0.40, w * 0.20, w * 0.10, w * 0.15, w * 0.15}
	headers := []string{"Product", "SKU", "Qty", "Unit Price", "Total"}
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		d.pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(widths[0], 8, d.tr(s.ProductName), "1", 0, "L", false, 0, "")
	d.pdf.CellFormat(widths[1], 8, d.tr(s.ProductSKU), "1", 0, "L", false, 0, "")
	d.pdf.CellFormat(widths[2], 8, fmt.Sprintf("%d", s.Quantity), "1", 0, "R", false, 0, "")
	d.pdf.CellFormat(widths[3], 8, money(s.UnitPrice), "1", 0, "R", false, 0, "")
	d.pdf.CellFormat(widths[4], 8, money(s.TotalAmount), "1", 1, "R", false, 0, "")

	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 9, "TOTAL", "1", 0, "R", false, 0, "")
	d.pdf.CellFormat(widths[4], 9, money(s.TotalAmount), "1", 1, "R", false, 0, "")

	d.pdf.Ln(10)
	d.pdf.SetFont("Helvetica", "I", 10)
	d.pdf.CellFormat(w, 6, "Thank you for your business!", "", 1, "C", false, 0, "")
	return d.bytes()
}
