package infra

import (
	"fmt"
	"io"
	"strings"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of workbooks produced here.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	productHeaders = []string{"ID", "Name", "SKU", "Category", "Price", "Quantity", "Reorder Level", "Stock Status", "Supplier ID", "Created Date"}
	saleHeaders    = []string{"ID", "Product Name", "Product SKU", "Category", "Quantity", "Unit Price", "Total Amount", "Customer Name", "Sale Date"}
)

// sheetWriter appends rows to one sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) append(values ...interface{}) {
	if w.err != nil {
		return
	}
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
}

func (w *sheetWriter) header(style int, titles []string) {
	values := make([]interface{}, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	w.append(values...)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(titles), w.row)
	if err != nil {
		w.err = err
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, w.row)
	if err := w.f.SetCellStyle(w.sheet, first, last, style); err != nil {
		w.err = err
		return
	}
	lastCol, _ := excelize.ColumnNumberToName(len(titles))
	w.err = w.f.SetColWidth(w.sheet, "A", lastCol, 18)
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
}

func num(d decimal.Decimal) float64 { return d.InexactFloat64() }

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeProducts(w *sheetWriter, style int, products []model.Product) {
	w.header(style, productHeaders)
	for i := range products {
		p := &products[i]
		supplierID := ""
		if p.SupplierID != nil {
			supplierID = p.SupplierID.String()
		}
		w.append(p.ID.String(), p.Name, p.SKU, p.Category, num(p.Price), p.Quantity,
			p.EffectiveReorderLevel(), p.StockStatus().Label(), supplierID, p.CreatedAt.Format(DisplayTimeLayout))
	}
}

func writeSales(w *sheetWriter, style int, sales []model.Sale) {
	w.header(style, saleHeaders)
	total := decimal.Zero
	for i := range sales {
		s := &sales[i]
		total = total.Add(s.TotalAmount)
		w.append(s.ID.String(), s.ProductName, s.ProductSKU, s.ProductCategory, s.Quantity,
			num(s.UnitPrice), num(s.TotalAmount), strOrEmpty(s.CustomerName), s.SaleDate.Format(DisplayTimeLayout))
	}
	// one blank row, then the label in column A and the total under "Total Amount"
	w.row++
	w.append("TOTAL SALES:", nil, nil, nil, nil, nil, num(total))
}

func finish(f *excelize.File, w *sheetWriter) ([]byte, error) {
	if w != nil && w.err != nil {
		return nil, fmt.Errorf("excel: %w", w.err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: write: %w", err)
	}
	return buf.Bytes(), nil
}

func newWorkbook(firstSheet string) (*excelize.File, int, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", firstSheet); err != nil {
		f.Close()
		return nil, 0, err
	}
	style, err := headerStyle(f)
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, style, nil
}

// ProductsWorkbook exports products to a single "Products" sheet.
func ProductsWorkbook(products []model.Product) ([]byte, error) {
	f, style, err := newWorkbook("Products")
	if err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	defer f.Close()

	w := &sheetWriter{f: f, sheet: "Products"}
	writeProducts(w, style, products)
	return finish(f, w)
}

// SalesWorkbook exports sales to a "Sales" sheet followed by a total row.
func SalesWorkbook(sales []model.Sale) ([]byte, error) {
	f, style, err := newWorkbook("Sales")
	if err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	defer f.Close()

	w := &sheetWriter{f: f, sheet: "Sales"}
	writeSales(w, style, sales)
	return finish(f, w)
}

// ReportWorkbook builds the three-sheet inventory report.
func ReportWorkbook(products []model.Product, sales []model.Sale, summary dto.ReportSummary) ([]byte, error) {
	f, style, err := newWorkbook("Products Report")
	if err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	defer f.Close()

	pw := &sheetWriter{f: f, sheet: "Products Report"}
	writeProducts(pw, style, products)
	if pw.err != nil {
		return nil, fmt.Errorf("excel: %w", pw.err)
	}

	for _, name := range []string{"Sales Report", "Summary"} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("excel: %w", err)
		}
	}

	sw := &sheetWriter{f: f, sheet: "Sales Report"}
	writeSales(sw, style, sales)
	if sw.err != nil {
		return nil, fmt.Errorf("excel: %w", sw.err)
	}

	mw := &sheetWriter{f: f, sheet: "Summary"}
	mw.header(style, []string{"Metric", "Value"})
	mw.append("Total Products", summary.TotalProducts)
	mw.append("Total Sales Records", summary.TotalSalesRecords)
	mw.append("Inventory Value", num(summary.InventoryValue))
	mw.append("Today's Sales", num(summary.TodaySales))
	mw.append("Monthly Sales", num(summary.MonthSales))

	f.SetActiveSheet(0)
	return finish(f, mw)
}

// ProductRow is one data row of an import sheet, still as text.
type ProductRow struct {
	Line         int
	Name         string
	SKU          string
	Category     string
	Price        string
	Quantity     string
	ReorderLevel string
}

// ReadProductRows reads the first sheet of an uploaded workbook. The first
// row is a header. Columns: Name, SKU, Category, Price, Quantity, Reorder Level.
// Blank rows are skipped.
func ReadProductRows(r io.Reader) ([]ProductRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excel: open: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("excel: read rows: %w", err)
	}

	var out []ProductRow
	for i, cols := range rows {
		if i == 0 {
			continue
		}
		cell := func(n int) string {
			if n < len(cols) {
				return strings.TrimSpace(cols[n])
			}
			return ""
		}
		row := ProductRow{
			Line:         i + 1,
			Name:         cell(0),
			SKU:          cell(1),
			Category:     cell(2),
			Price:        cell(3),
			Quantity:     cell(4),
			ReorderLevel: cell(5),
		}
		if row.Name == "" && row.SKU == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
