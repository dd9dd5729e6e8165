package web

import (
	"bytes"
	"testing"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_ParseAllPages(t *testing.T) {
	tmpl, err := Templates("Acme Stock")
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "login.html", "error.html", "dashboard.html",
		"products.html", "product_form.html", "product_view.html", "product_reports.html",
		"suppliers.html", "supplier_form.html", "supplier_view.html",
		"sales.html", "sale_form.html", "sale_view.html", "profile.html", "settings.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestTemplates_RenderProductList(t *testing.T) {
	tmpl, err := Templates("Acme Stock")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "products.html", map[string]interface{}{
		"Title": "All Products",
		"Products": []model.Product{
			{Name: "Laptop", SKU: "LAPTOP-001", Price: decimal.RequireFromString("999.99"), Quantity: 3, ReorderLevel: 5},
		},
		"Categories": []string{"Electronics"},
		"Filter":     dto.ProductFilter{},
		"Success":    "Product saved successfully!",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Acme Stock")
	assert.Contains(t, out, "LAPTOP-001")
	assert.Contains(t, out, "$999.99")
	assert.Contains(t, out, "Low Stock")
	assert.Contains(t, out, "Product saved successfully!")
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "danger", StatusClass(model.StockOut))
	assert.Equal(t, "warning", StatusClass(model.StockLow))
	assert.Equal(t, "success", StatusClass(model.StockIn))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$4.50", Money(decimal.RequireFromString("4.5")))
	assert.Equal(t, "-", FormatTime(time.Time{}))
	assert.Equal(t, "2024-03-15 10:30", FormatTime(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)))
}

func TestStatic_ServesStylesheet(t *testing.T) {
	f, err := Static().Open("css/app.css")
	require.NoError(t, err)
	defer f.Close()
}
